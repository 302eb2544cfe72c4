package models

import "time"

// Comment представляет комментарий к модели. ParentID указывает на
// родительский комментарий при вложенности, иначе пуст. Жизненный цикл
// комментария независим от модели: удаление модели комментарии не трогает.
type Comment struct {
	ID        string
	ModelID   string
	ParentID  string
	Author    string
	Text      string
	CreatedAt time.Time
}
