package entity

// LandmarkName имя анатомической точки
type LandmarkName string

const (
	LeftShoulder  LandmarkName = "LEFT_SHOULDER"
	RightShoulder LandmarkName = "RIGHT_SHOULDER"
	LeftElbow     LandmarkName = "LEFT_ELBOW"
	RightElbow    LandmarkName = "RIGHT_ELBOW"
	LeftWrist     LandmarkName = "LEFT_WRIST"
	RightWrist    LandmarkName = "RIGHT_WRIST"
	LeftHip       LandmarkName = "LEFT_HIP"
	RightHip      LandmarkName = "RIGHT_HIP"
	LeftKnee      LandmarkName = "LEFT_KNEE"
	RightKnee     LandmarkName = "RIGHT_KNEE"
	LeftAnkle     LandmarkName = "LEFT_ANKLE"
	RightAnkle    LandmarkName = "RIGHT_ANKLE"
)

// Landmark точка тела в нормализованных координатах [0,1]
type Landmark struct {
	Name       LandmarkName `json:"name"`
	X          float64      `json:"x"`
	Y          float64      `json:"y"`
	Visibility float64      `json:"visibility"` // уверенность, что точка видна
}

// Px переводит точку в пиксели изображения (с отбрасыванием дробной части).
func (l Landmark) Px(width, height int) (x, y int) {
	return int(l.X * float64(width)), int(l.Y * float64(height))
}

// LandmarkSet точки одного человека на кадре.
type LandmarkSet map[LandmarkName]Landmark

// Empty сообщает, что детектор ничего не вернул
func (s LandmarkSet) Empty() bool {
	return len(s) == 0
}

// Get возвращает точку и признак её наличия
func (s LandmarkSet) Get(name LandmarkName) (Landmark, bool) {
	l, ok := s[name]
	return l, ok
}

// Visibility возвращает уверенность точки, 0 если точки нет.
func (s LandmarkSet) Visibility(name LandmarkName) float64 {
	return s[name].Visibility
}

// AllVisible проверяет, что все точки видны строго выше порога.
func (s LandmarkSet) AllVisible(threshold float64, names ...LandmarkName) bool {
	for _, n := range names {
		if s.Visibility(n) <= threshold {
			return false
		}
	}
	return true
}

// NewLandmarkSet собирает набор из списка точек
func NewLandmarkSet(points ...Landmark) LandmarkSet {
	set := make(LandmarkSet, len(points))
	for _, p := range points {
		set[p.Name] = p
	}
	return set
}

// Points возвращает точки списком (для сериализации)
func (s LandmarkSet) Points() []Landmark {
	out := make([]Landmark, 0, len(s))
	for _, l := range s {
		out = append(out, l)
	}
	return out
}
