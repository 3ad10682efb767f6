package model

import (
	"time"

	"github.com/google/uuid"
)

type Book struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Author    string    `json:"author" db:"author"`
	OwnerID   uuid.UUID `json:"ownerId" db:"owner_id"`
	ImageURL  string    `json:"imageUrl" db:"image_url"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Trader is the local projection of an identity-provider user.
type Trader struct {
	ID       uuid.UUID `json:"id" db:"id"`
	Username string    `json:"username" db:"username"`
	FullName string    `json:"fullName" db:"full_name"`
	City     string    `json:"city" db:"city"`
	State    string    `json:"state" db:"state"`
}

func (t Trader) DisplayName() string {
	if t.FullName != "" {
		return t.FullName
	}
	return t.Username
}

type TradeStatus string

const (
	TradeStatusPending   TradeStatus = "pending"
	TradeStatusAccepted  TradeStatus = "accepted"
	TradeStatusRejected  TradeStatus = "rejected"
	TradeStatusCancelled TradeStatus = "cancelled"
)

func (s TradeStatus) String() string { return string(s) }

func (s TradeStatus) IsTerminal() bool {
	return s == TradeStatusAccepted || s == TradeStatusRejected || s == TradeStatusCancelled
}

// IsDecision reports whether a recipient may choose s. Cancellation is reserved to the engine.
func (s TradeStatus) IsDecision() bool {
	return s == TradeStatusAccepted || s == TradeStatusRejected
}

type Trade struct {
	ID             uuid.UUID   `json:"id" db:"id"`
	ProposerID     uuid.UUID   `json:"proposerId" db:"proposer_id"`
	RecipientID    uuid.UUID   `json:"recipientId" db:"recipient_id"`
	TargetBookID   uuid.UUID   `json:"targetBookId" db:"target_book_id"`
	OfferedBookIDs []uuid.UUID `json:"offeredBookIds" db:"offered_book_ids"`
	Status         TradeStatus `json:"status" db:"status"`
	CreatedAt      time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time   `json:"updatedAt" db:"updated_at"`
}

// BookIDs lists the target book followed by the offered books.
func (t Trade) BookIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(t.OfferedBookIDs)+1)
	ids = append(ids, t.TargetBookID)
	return append(ids, t.OfferedBookIDs...)
}

func (t Trade) IsParticipant(userID uuid.UUID) bool {
	return t.ProposerID == userID || t.RecipientID == userID
}

type ProposeTradeRequest struct {
	TargetBookID   uuid.UUID   `json:"targetBookId" validate:"required"`
	OfferedBookIDs []uuid.UUID `json:"offeredBookIds" validate:"required,min=1,unique"`
}

type RespondTradeRequest struct {
	Status TradeStatus `json:"status" validate:"required"`
}

type CreateBookRequest struct {
	Title    string `json:"title" validate:"required,max=512"`
	Author   string `json:"author" validate:"required,max=512"`
	ImageURL string `json:"imageUrl" validate:"omitempty,url"`
}

type BookFilter struct {
	// OwnerID restricts the listing to one owner; uuid.Nil lists every book.
	OwnerID uuid.UUID
	Page    int
	Size    int
}

type Paging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
}

type TraderRef struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	FullName    string    `json:"fullName"`
	DisplayName string    `json:"displayName"`
	City        string    `json:"city,omitempty"`
	State       string    `json:"state,omitempty"`
}

func NewTraderRef(id uuid.UUID, t Trader) TraderRef {
	return TraderRef{
		ID:          id,
		Username:    t.Username,
		FullName:    t.FullName,
		DisplayName: t.DisplayName(),
		City:        t.City,
		State:       t.State,
	}
}

type BookRef struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	Author string    `json:"author"`
}

func NewBookRef(b Book) BookRef {
	return BookRef{ID: b.ID, Title: b.Title, Author: b.Author}
}

// TradeView is a trade with participants and books expanded to their display fields.
type TradeView struct {
	ID           uuid.UUID   `json:"id"`
	Proposer     TraderRef   `json:"proposer"`
	Recipient    TraderRef   `json:"recipient"`
	TargetBook   BookRef     `json:"targetBook"`
	OfferedBooks []BookRef   `json:"offeredBooks"`
	Status       TradeStatus `json:"status"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

type BookView struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	ImageURL  string    `json:"imageUrl"`
	Owner     TraderRef `json:"owner"`
	CreatedAt time.Time `json:"createdAt"`
}

type ListBooks struct {
	Paging `json:",inline"`
	Items  []BookView `json:"items"`
}
