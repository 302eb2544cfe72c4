package models

import "time"

// Model представляет загруженную 3D-модель.
type Model struct {
	ID           string    // Уникальный идентификатор модели
	Name         string    // Отображаемое имя
	FileRef      string    // Ссылка на файл модели в хранилище файлов
	ThumbnailRef string    // Ссылка на превью (может быть пустой)
	Tags         []string  // Произвольные теги
	Creator      string    // Username создателя, всегда имеет право записи
	CreatedAt    time.Time // Дата создания
}

// ModelUpdate описывает изменяемые поля модели. Nil-поле означает
// "не менять". Creator и CreatedAt не изменяются никогда.
type ModelUpdate struct {
	Name         *string
	FileRef      *string
	ThumbnailRef *string
	Tags         []string
}
