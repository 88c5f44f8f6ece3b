package entity

import "fmt"

// GarmentClass тип одежды, определяет формулу размещения
type GarmentClass string

const (
	UpperBody GarmentClass = "upper_body"
	LowerBody GarmentClass = "lower_body"
)

// ParseGarmentClass разбирает тип одежды из запроса.
// Короткие формы "upper"/"lower" тоже допускаются.
func ParseGarmentClass(s string) (GarmentClass, error) {
	switch s {
	case "upper_body", "upper":
		return UpperBody, nil
	case "lower_body", "lower":
		return LowerBody, nil
	}
	return "", fmt.Errorf("unknown garment type %q", s)
}

// AdjustmentParams пользовательские поправки к размещению
type AdjustmentParams struct {
	XOffset    int     `json:"x_offset"`
	YOffset    int     `json:"y_offset"`
	SizeFactor float64 `json:"size_factor"`
}

// DefaultAdjustment означает "без поправок".
func DefaultAdjustment() AdjustmentParams {
	return AdjustmentParams{SizeFactor: 1.0}
}

// Validate отклоняет неположительный коэффициент размера.
func (a AdjustmentParams) Validate() error {
	if !(a.SizeFactor > 0) {
		return NewError(KindInvalidAdjustment, fmt.Sprintf("size factor must be positive, got %v", a.SizeFactor))
	}
	return nil
}
