package entity

// Коды причин отказа проверки позы.
const (
	ReasonNoLandmarks         = "no landmarks"
	ReasonShouldersNotVisible = "shoulders not visible"
	ReasonPoseNotSuitable     = "pose not suitable"
	ReasonLegsNotVisible      = "legs not visible"
	ReasonLegsTooFarApart     = "legs too far apart"
	ReasonLegsNotStraight     = "legs not straight"
)

var reasonMessages = map[string]string{
	ReasonNoLandmarks:         "No pose landmarks detected. Please ensure you are in a well-lit area and fully visible in the frame.",
	ReasonShouldersNotVisible: "Shoulders not clearly visible. Please stand with a clear view of both shoulders and hips.",
	ReasonPoseNotSuitable:     "Not suitable. Try again with proper pose and body visibility.",
	ReasonLegsNotVisible:      "Legs not clearly visible. Please stand with a clear view of both knees and ankles.",
	ReasonLegsTooFarApart:     "Legs are too far apart. Please stand with your legs closer together.",
	ReasonLegsNotStraight:     "Legs are not straight or may be twisted. Please stand with your legs straight and untwisted.",
}

// SuitabilityResult итог проверки пригодности фото
type SuitabilityResult struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason"`
	Message  string `json:"message"` // текст для пользователя
}

// Accept возвращает положительный результат проверки
func Accept(class GarmentClass) SuitabilityResult {
	msg := "Image is suitable for virtual try-on."
	if class == LowerBody {
		msg = "Lower body pose is suitable for virtual try-on."
	}
	return SuitabilityResult{Accepted: true, Message: msg}
}

// Reject возвращает отказ с кодом причины
func Reject(reason string) SuitabilityResult {
	return SuitabilityResult{Reason: reason, Message: ReasonMessage(reason)}
}

// ReasonMessage возвращает текст причины для показа пользователю.
func ReasonMessage(reason string) string {
	if msg, ok := reasonMessages[reason]; ok {
		return msg
	}
	return reason
}
