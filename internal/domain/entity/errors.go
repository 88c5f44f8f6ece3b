package entity

import "errors"

// ErrorKind вид ошибки примерки
type ErrorKind string

const (
	KindNoPoseDetected      ErrorKind = "no_pose_detected"
	KindSuitabilityRejected ErrorKind = "suitability_rejected"
	KindInvalidGeometry     ErrorKind = "invalid_geometry"
	KindInvalidAdjustment   ErrorKind = "invalid_adjustment"
	KindMissingAlphaChannel ErrorKind = "missing_alpha_channel"
	KindImageLoadFailure    ErrorKind = "image_load_failure"
	KindSessionBusy         ErrorKind = "session_busy"
	KindSessionNotFound     ErrorKind = "session_not_found"
	KindSessionClosed       ErrorKind = "session_closed"
)

// Error ошибка с видом и причиной, пригодной для показа пользователю.
type Error struct {
	Kind   ErrorKind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is сравнивает ошибки по виду, чтобы работал errors.Is с эталонами ниже.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Эталонные ошибки для errors.Is.
var (
	ErrNoPoseDetected      = &Error{Kind: KindNoPoseDetected, Reason: "No pose landmarks detected in the image"}
	ErrSuitabilityRejected = &Error{Kind: KindSuitabilityRejected, Reason: "image is not suitable for try-on"}
	ErrInvalidGeometry     = &Error{Kind: KindInvalidGeometry, Reason: "Invalid garment dimensions calculated"}
	ErrInvalidAdjustment   = &Error{Kind: KindInvalidAdjustment, Reason: "invalid adjustment"}
	ErrMissingAlphaChannel = &Error{Kind: KindMissingAlphaChannel, Reason: "Garment image has no alpha channel"}
	ErrImageLoadFailure    = &Error{Kind: KindImageLoadFailure, Reason: "Failed to load image"}
	ErrSessionBusy         = &Error{Kind: KindSessionBusy, Reason: "Session is busy, try again in a moment"}
	ErrSessionNotFound     = &Error{Kind: KindSessionNotFound, Reason: "Session not found"}
	ErrSessionClosed       = &Error{Kind: KindSessionClosed, Reason: "Session is closed"}
)

// NewError создаёт ошибку заданного вида
func NewError(kind ErrorKind, reason string) *Error {
	return &Error{Kind: kind, Reason: reason}
}

// WrapError оборачивает причину из нижнего слоя
func WrapError(kind ErrorKind, reason string, err error) *Error {
	return &Error{Kind: kind, Reason: reason, Err: err}
}

// KindOf возвращает вид ошибки или пустую строку для посторонних ошибок.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Reason возвращает текст для пользователя.
func Reason(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// EndsSession сообщает, завершает ли ошибка всю сессию примерки.
func EndsSession(err error) bool {
	switch KindOf(err) {
	case KindNoPoseDetected, KindSuitabilityRejected:
		return true
	}
	return false
}
