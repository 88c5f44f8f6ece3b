package tryon

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tryon-bot/internal/domain/entity"
)

func lm(name entity.LandmarkName, x, y, vis float64) entity.Landmark {
	return entity.Landmark{Name: name, X: x, Y: y, Visibility: vis}
}

func frame(w, h int) *entity.Image {
	return &entity.Image{Width: w, Height: h, Channels: 3, Pix: make([]uint8, w*h*3)}
}

func upperBodySet(vis float64) entity.LandmarkSet {
	return entity.NewLandmarkSet(
		lm(entity.LeftShoulder, 0.40, 0.30, vis),
		lm(entity.RightShoulder, 0.60, 0.30, vis),
		lm(entity.LeftHip, 0.42, 0.55, vis),
		lm(entity.RightHip, 0.58, 0.55, vis),
	)
}

func lowerBodySet(kneeVis, ankleVis float64) entity.LandmarkSet {
	return entity.NewLandmarkSet(
		lm(entity.LeftHip, 0.42, 0.50, 0.95),
		lm(entity.RightHip, 0.58, 0.50, 0.95),
		lm(entity.LeftKnee, 0.45, 0.70, kneeVis),
		lm(entity.RightKnee, 0.55, 0.70, kneeVis),
		lm(entity.LeftAnkle, 0.46, 0.90, ankleVis),
		lm(entity.RightAnkle, 0.54, 0.90, ankleVis),
	)
}

func TestEvaluateSuitability_NoLandmarks(t *testing.T) {
	for _, class := range []entity.GarmentClass{entity.UpperBody, entity.LowerBody} {
		res := EvaluateSuitability(frame(800, 1000), nil, class)
		require.False(t, res.Accepted)
		require.Equal(t, entity.ReasonNoLandmarks, res.Reason)
		require.NotEmpty(t, res.Message)
	}
}

func TestEvaluateSuitability_UpperAccepted(t *testing.T) {
	for _, vis := range []float64{0.81, 0.9, 0.95, 1.0} {
		res := EvaluateSuitability(frame(800, 1000), upperBodySet(vis), entity.UpperBody)
		require.True(t, res.Accepted, "visibility %v", vis)
		require.Empty(t, res.Reason)
	}
}

func TestEvaluateSuitability_ShouldersNotVisible(t *testing.T) {
	for _, vis := range []float64{0, 0.5, 0.8} {
		set := upperBodySet(0.95)
		left := set[entity.LeftShoulder]
		left.Visibility = vis
		set[entity.LeftShoulder] = left

		res := EvaluateSuitability(frame(800, 1000), set, entity.UpperBody)
		require.False(t, res.Accepted)
		require.Equal(t, entity.ReasonShouldersNotVisible, res.Reason)
	}

	set := upperBodySet(0.95)
	delete(set, entity.RightShoulder)
	res := EvaluateSuitability(frame(800, 1000), set, entity.UpperBody)
	require.Equal(t, entity.ReasonShouldersNotVisible, res.Reason)
}

func TestEvaluateSuitability_TwistedTorso(t *testing.T) {
	set := upperBodySet(0.95)
	set[entity.LeftHip] = lm(entity.LeftHip, 0.42, 0.50, 0.95)
	set[entity.RightHip] = lm(entity.RightHip, 0.58, 0.60, 0.95)

	res := EvaluateSuitability(frame(800, 1000), set, entity.UpperBody)
	require.False(t, res.Accepted)
	require.Equal(t, entity.ReasonPoseNotSuitable, res.Reason)
}

func TestEvaluateSuitability_SmallSubjectNeedsSmallImage(t *testing.T) {
	set := entity.NewLandmarkSet(
		lm(entity.LeftShoulder, 0.45, 0.30, 0.9),
		lm(entity.RightShoulder, 0.55, 0.30, 0.9),
		lm(entity.LeftHip, 0.46, 0.55, 0.9),
		lm(entity.RightHip, 0.54, 0.55, 0.9),
	)

	// маленький человек на маленьком кадре
	res := EvaluateSuitability(frame(400, 500), set, entity.UpperBody)
	require.False(t, res.Accepted)
	require.Equal(t, entity.ReasonPoseNotSuitable, res.Reason)

	// тот же человек, но кадр высотой от 600 — размер уже не проверяется
	res = EvaluateSuitability(frame(400, 800), set, entity.UpperBody)
	require.True(t, res.Accepted)
}

func TestEvaluateSuitability_MissingHips(t *testing.T) {
	set := upperBodySet(0.95)
	delete(set, entity.LeftHip)
	res := EvaluateSuitability(frame(800, 1000), set, entity.UpperBody)
	require.Equal(t, entity.ReasonPoseNotSuitable, res.Reason)
}

func TestEvaluateSuitability_LowerAccepted(t *testing.T) {
	res := EvaluateSuitability(frame(800, 1000), lowerBodySet(0.95, 0.95), entity.LowerBody)
	require.True(t, res.Accepted)
}

func TestEvaluateSuitability_LegsNotVisible(t *testing.T) {
	res := EvaluateSuitability(frame(800, 1000), lowerBodySet(0.5, 0.95), entity.LowerBody)
	require.False(t, res.Accepted)
	require.Equal(t, entity.ReasonLegsNotVisible, res.Reason)

	res = EvaluateSuitability(frame(800, 1000), lowerBodySet(0.95, 0.8), entity.LowerBody)
	require.Equal(t, entity.ReasonLegsNotVisible, res.Reason)
}

func TestEvaluateSuitability_LegsTooFarApart(t *testing.T) {
	set := lowerBodySet(0.95, 0.95)
	set[entity.LeftKnee] = lm(entity.LeftKnee, 0.30, 0.70, 0.95)
	set[entity.RightKnee] = lm(entity.RightKnee, 0.60, 0.70, 0.95)

	res := EvaluateSuitability(frame(800, 1000), set, entity.LowerBody)
	require.Equal(t, entity.ReasonLegsTooFarApart, res.Reason)
}

func TestEvaluateSuitability_LegsNotStraight(t *testing.T) {
	set := lowerBodySet(0.95, 0.95)
	// колено ниже щиколотки
	set[entity.LeftKnee] = lm(entity.LeftKnee, 0.45, 0.95, 0.95)

	res := EvaluateSuitability(frame(800, 1000), set, entity.LowerBody)
	require.Equal(t, entity.ReasonLegsNotStraight, res.Reason)
}

func TestCosineSimilarity(t *testing.T) {
	c, ok := cosineSimilarity([]float64{1, 0}, []float64{2, 0})
	require.True(t, ok)
	require.Equal(t, 1.0, c)

	c, ok = cosineSimilarity([]float64{1, 0}, []float64{1, 1})
	require.True(t, ok)
	require.Equal(t, 0.707, c)

	_, ok = cosineSimilarity([]float64{0, 0}, []float64{1, 1})
	require.False(t, ok)
}
