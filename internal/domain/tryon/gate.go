// Package tryon содержит геометрию примерки: проверку позы, расчёт области
// под одежду и наложение одежды на фото.
package tryon

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"tryon-bot/internal/domain/entity"
)

const (
	minVisibility = 0.8

	// верх
	minBodyHeightRatio = 0.6
	smallImageHeight   = 600
	minAlignment       = 0.995

	// низ
	maxLegSeparationRatio = 0.25
	maxAnkleOffsetRatio   = 0.1
)

// EvaluateSuitability проверяет, годится ли поза на фото для примерки.
func EvaluateSuitability(img *entity.Image, set entity.LandmarkSet, class entity.GarmentClass) entity.SuitabilityResult {
	if set.Empty() {
		return entity.Reject(entity.ReasonNoLandmarks)
	}
	if class == entity.LowerBody {
		return evaluateLowerBody(img, set)
	}
	return evaluateUpperBody(img, set)
}

func evaluateUpperBody(img *entity.Image, set entity.LandmarkSet) entity.SuitabilityResult {
	if !set.AllVisible(minVisibility, entity.LeftShoulder, entity.RightShoulder) {
		return entity.Reject(entity.ReasonShouldersNotVisible)
	}

	ls, rs := set[entity.LeftShoulder], set[entity.RightShoulder]
	lh, okL := set.Get(entity.LeftHip)
	rh, okR := set.Get(entity.RightHip)
	if !okL || !okR {
		return entity.Reject(entity.ReasonPoseNotSuitable)
	}

	// Обе длины масштабируются по ширине кадра.
	width := float64(img.Width)
	shoulderDistance := math.Hypot(ls.X-rs.X, ls.Y-rs.Y) * width
	hipDistance := math.Hypot(lh.X-rh.X, lh.Y-rh.Y) * width
	upperBodyHeight := shoulderDistance + hipDistance

	shoulderVec := []float64{rs.X - ls.X, rs.Y - ls.Y}
	hipVec := []float64{rh.X - lh.X, rh.Y - lh.Y}
	cosine, ok := cosineSimilarity(shoulderVec, hipVec)
	if !ok {
		return entity.Reject(entity.ReasonPoseNotSuitable)
	}

	tooSmall := upperBodyHeight/float64(img.Height) < minBodyHeightRatio && img.Height < smallImageHeight
	if tooSmall || cosine < minAlignment {
		return entity.Reject(entity.ReasonPoseNotSuitable)
	}
	return entity.Accept(entity.UpperBody)
}

func evaluateLowerBody(img *entity.Image, set entity.LandmarkSet) entity.SuitabilityResult {
	if !set.AllVisible(minVisibility, entity.LeftKnee, entity.RightKnee, entity.LeftAnkle, entity.RightAnkle) {
		return entity.Reject(entity.ReasonLegsNotVisible)
	}

	lk, rk := set[entity.LeftKnee], set[entity.RightKnee]
	la, ra := set[entity.LeftAnkle], set[entity.RightAnkle]
	width := float64(img.Width)

	legSeparation := math.Abs(rk.X-lk.X) * width
	if legSeparation > maxLegSeparationRatio*width {
		return entity.Reject(entity.ReasonLegsTooFarApart)
	}

	// Колени выше щиколоток (меньше по строке), щиколотки на одной вертикали.
	// Разница X щиколоток здесь в нормализованных единицах, как в исходной формуле.
	straight := lk.Y < la.Y && rk.Y < ra.Y && math.Abs(la.X-ra.X) < maxAnkleOffsetRatio*width
	if !straight {
		return entity.Reject(entity.ReasonLegsNotStraight)
	}
	return entity.Accept(entity.LowerBody)
}

// cosineSimilarity считает косинус угла, округлённый до трёх знаков.
// ok=false, если один из векторов нулевой.
func cosineSimilarity(a, b []float64) (float64, bool) {
	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0, false
	}
	c := floats.Dot(a, b) / (na * nb)
	return math.Round(c*1000) / 1000, true
}
