package domain

import (
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrAlreadyExists       = errors.New("already exists")
	ErrGenerationExhausted = errors.New("id generation exhausted")
	ErrStoreUnavailable    = errors.New("store unavailable")
	ErrInvalidState        = errors.New("invalid state")
)

// DifficultyUnrated — значение по умолчанию, когда сложность не задана
const DifficultyUnrated = "?"

type Tech struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Difficulty  string    `json:"difficulty"`
	Tags        []string  `json:"tags,omitempty"`
	Aka         []string  `json:"aka,omitempty"`
	VideoURL    string    `json:"videoUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

const (
	SortNameAsc  = "az"
	SortNameDesc = "za"
	SortDiffAsc  = "diff_asc"
	SortDiffDesc = "diff_desc"
)

// QuerySpec — распознаваемые параметры фильтрации и сортировки каталога.
// Пустые значения означают "фильтр не задан".
type QuerySpec struct {
	Search     string
	Difficulty string
	Tags       []string
	Sort       string
}

// DifficultyInput принимает в JSON и строку, и число: старые клиенты
// присылали difficulty числом. Хранится всегда строковая форма.
type DifficultyInput string

func (d *DifficultyInput) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = DifficultyInput(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*d = DifficultyInput(n.String())
	return nil
}

type CreateTechInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Difficulty  DifficultyInput `json:"difficulty"`
	Tags        []string        `json:"tags"`
	Aka         []string        `json:"aka"`
	VideoURL    string          `json:"videoUrl"`
}

// UpdateTechInput — частичное обновление. nil = поле не трогаем,
// пустое значение = очистить поле (для опциональных полей).
type UpdateTechInput struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Difficulty  *DifficultyInput `json:"difficulty"`
	Tags        *[]string        `json:"tags"`
	Aka         *[]string        `json:"aka"`
	VideoURL    *string          `json:"videoUrl"`
}
