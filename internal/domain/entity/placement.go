package entity

import "image"

// TargetRect область на базовом изображении, куда вписывается одежда
type TargetRect struct {
	X      int `json:"x"`      // координата X левого верхнего угла
	Y      int `json:"y"`      // координата Y левого верхнего угла
	Width  int `json:"width"`  // ширина в пикселях
	Height int `json:"height"` // высота в пикселях
}

// Valid проверяет положительные размеры
func (r TargetRect) Valid() bool {
	return r.Width > 0 && r.Height > 0
}

// Center возвращает координаты центра области
func (r TargetRect) Center() (x, y int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Rectangle переводит область в image.Rectangle
func (r TargetRect) Rectangle() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}
