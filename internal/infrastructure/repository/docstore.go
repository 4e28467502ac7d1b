package repository

import "context"

// Fields — содержимое одного документа (как в Firestore).
type Fields = map[string]any

type deleteField struct{}

// DeleteField — сентинел для Update: поле с таким значением
// удаляется из документа, а не записывается как null.
var DeleteField any = deleteField{}

type Document struct {
	ID     string
	Fields Fields
}

// DocumentStore — key-value хранилище документов с пер-коллекционным сканом.
// Запись одного документа атомарна, между документами гарантий нет (LWW).
type DocumentStore interface {
	Get(ctx context.Context, collection, id string) (Fields, error)
	Put(ctx context.Context, collection, id string, fields Fields) error
	Update(ctx context.Context, collection, id string, partial Fields) error
	Delete(ctx context.Context, collection, id string) error
	Scan(ctx context.Context, collection string) ([]Document, error)
}
