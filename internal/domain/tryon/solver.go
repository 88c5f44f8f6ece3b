package tryon

import (
	"fmt"
	"math"

	"tryon-bot/internal/domain/entity"
)

// Подобранные вручную множители, менять только вместе с визуальной настройкой.
const (
	upperWidthScale  = 1.9
	upperHeightScale = 1.2
	upperOffsetX     = 0.02
	upperOffsetY     = 0.18

	lowerWidthScale  = 4.5
	lowerHeightScale = 0.95
	lowerOffsetX     = 0.01
	lowerOffsetY     = 0.15
)

// maxRectSide предел стороны области, дальше int-арифметика координат
// перестаёт быть безопасной. Память композиции от него не зависит.
const maxRectSide = 1 << 30

// SolvePlacement рассчитывает область под одежду на изображении width×height.
func SolvePlacement(width, height int, set entity.LandmarkSet, class entity.GarmentClass, adj entity.AdjustmentParams) (entity.TargetRect, error) {
	if err := adj.Validate(); err != nil {
		return entity.TargetRect{}, err
	}
	if width <= 0 || height <= 0 {
		return entity.TargetRect{}, entity.NewError(entity.KindInvalidGeometry, fmt.Sprintf("invalid base image size %dx%d", width, height))
	}

	var (
		rect entity.TargetRect
		err  error
	)
	switch class {
	case entity.UpperBody:
		rect, err = solveUpperBody(width, height, set, adj)
	case entity.LowerBody:
		rect, err = solveLowerBody(width, height, set, adj)
	default:
		return entity.TargetRect{}, entity.NewError(entity.KindInvalidGeometry, fmt.Sprintf("unknown garment class %q", class))
	}
	if err != nil {
		return entity.TargetRect{}, err
	}
	if !rect.Valid() {
		return entity.TargetRect{}, entity.ErrInvalidGeometry
	}
	return rect, nil
}

func solveUpperBody(width, height int, set entity.LandmarkSet, adj entity.AdjustmentParams) (entity.TargetRect, error) {
	ls, rs, err := pair(set, entity.LeftShoulder, entity.RightShoulder)
	if err != nil {
		return entity.TargetRect{}, err
	}
	lx, ly := ls.Px(width, height)
	rx, ry := rs.Px(width, height)

	centerX := (lx + rx) / 2
	upperBodyLength := float64(ly+ry) / 2
	w, err := side(math.Abs(float64(rx-lx)) * upperWidthScale * adj.SizeFactor)
	if err != nil {
		return entity.TargetRect{}, err
	}
	h, err := side(upperBodyLength * upperHeightScale * adj.SizeFactor)
	if err != nil {
		return entity.TargetRect{}, err
	}

	baseOffsetX := int(float64(w) * upperOffsetX)
	baseOffsetY := int(upperBodyLength * upperOffsetY)

	return entity.TargetRect{
		X:      centerX - w/2 + baseOffsetX + adj.XOffset,
		Y:      min(ly, ry) - baseOffsetY + adj.YOffset,
		Width:  w,
		Height: h,
	}, nil
}

func solveLowerBody(width, height int, set entity.LandmarkSet, adj entity.AdjustmentParams) (entity.TargetRect, error) {
	lh, rh, err := pair(set, entity.LeftHip, entity.RightHip)
	if err != nil {
		return entity.TargetRect{}, err
	}
	lx, ly := lh.Px(width, height)
	rx, ry := rh.Px(width, height)

	centerX := floorDiv(lx+rx, 2)
	lowerBodyHeight := float64(ly+ry) / 2
	w, err := side(math.Abs(float64(rx-lx)) * lowerWidthScale * adj.SizeFactor)
	if err != nil {
		return entity.TargetRect{}, err
	}
	h, err := side((float64(height) - lowerBodyHeight) * lowerHeightScale * adj.SizeFactor)
	if err != nil {
		return entity.TargetRect{}, err
	}

	baseOffsetX := int(float64(w) * lowerOffsetX)
	baseOffsetY := int(lowerBodyHeight * lowerOffsetY)

	return entity.TargetRect{
		X:      centerX - floorDiv(w, 2) + baseOffsetX + adj.XOffset,
		Y:      int(lowerBodyHeight) - baseOffsetY + adj.YOffset,
		Width:  w,
		Height: h,
	}, nil
}

func pair(set entity.LandmarkSet, left, right entity.LandmarkName) (entity.Landmark, entity.Landmark, error) {
	l, okL := set.Get(left)
	r, okR := set.Get(right)
	if !okL || !okR {
		return l, r, entity.NewError(entity.KindInvalidGeometry, fmt.Sprintf("landmarks %s/%s are missing", left, right))
	}
	return l, r, nil
}

// side усекает сторону к int, отвергая значения вне [.., maxRectSide).
func side(v float64) (int, error) {
	if !(v < maxRectSide) {
		return 0, entity.NewError(entity.KindInvalidGeometry, fmt.Sprintf("placement side %.0f exceeds %d", v, maxRectSide))
	}
	return int(v), nil
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
