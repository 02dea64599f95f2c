package dto

// GenerateQARequest accepts either a stored note or raw text.
type GenerateQARequest struct {
	NoteId       string `json:"note_id" validate:"omitempty,uuid"`
	Text         string `json:"text"`
	QuestionType string `json:"question_type" validate:"omitempty,oneof=MCQ 'Short Answer' 'Long Answer'"`
	Difficulty   string `json:"difficulty" validate:"omitempty,oneof=Easy Medium Hard"`
}

type QAOptionResponse struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

type QAItemResponse struct {
	Id            string             `json:"id"`
	Type          string             `json:"type"`
	Difficulty    string             `json:"difficulty"`
	Question      string             `json:"question"`
	Options       []QAOptionResponse `json:"options,omitempty"`
	CorrectOption string             `json:"correctOption,omitempty"`
	Answer        string             `json:"answer"`
}

type GenerateQAResponse struct {
	Items []QAItemResponse `json:"items"`
}
