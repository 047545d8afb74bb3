package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/AnshRaj112/serenify-engagement/pkg/utils"
)

const maxJournalBodyBytes = 1 << 20

var errBodyNotObject = errors.New("request body must be a JSON object")

// createJournalRequest is the raw body. Pointers tell a missing or null
// field apart from an empty string. Any other field, such as a client
// supplied owner id, is ignored.
type createJournalRequest struct {
	Content *string  `json:"content"`
	Mood    *string  `json:"mood"`
	Tags    []string `json:"tags"`
}

// journalInput is the normalized request that gets validated and stored.
type journalInput struct {
	Content string   `json:"content" validate:"required"`
	Mood    string   `json:"mood" validate:"required"`
	Tags    []string `json:"tags" validate:"dive,required"`
}

func (h *EngagementHandler) decodeJournal(w http.ResponseWriter, r *http.Request) (journalInput, error) {
	var req createJournalRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJournalBodyBytes))
	if err := dec.Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return journalInput{}, fieldError(strings.SplitN(typeErr.Field, ".", 2)[0])
		}
		return journalInput{}, errBodyNotObject
	}

	input := journalInput{Tags: utils.NormalizeTags(req.Tags)}
	if req.Content != nil {
		input.Content = strings.TrimSpace(*req.Content)
	}
	if req.Mood != nil {
		input.Mood = utils.NormalizeMood(*req.Mood)
	}

	if err := h.validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return journalInput{}, fieldError(strings.SplitN(verrs[0].Field(), "[", 2)[0])
		}
		return journalInput{}, err
	}
	return input, nil
}

func fieldError(field string) *utils.ValidationError {
	msg := field + " must be a non-empty string"
	if field == "tags" {
		msg = "tags must be an array of strings"
	}
	return &utils.ValidationError{Field: field, Message: msg}
}
