package model

// Phrase is a simple titled message stored in the `phrases` table.
//
// Fields:
//  ID      – primary key identifier.
//  Title   – short title of the phrase.
//  Message – the phrase body.
type Phrase struct {
	ID      uint64 `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
}
