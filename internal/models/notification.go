package models

import "time"

// Verb names what the actor did.
type Verb string

const (
	VerbFollowed  Verb = "followed"
	VerbLiked     Verb = "liked"
	VerbCommented Verb = "commented"
)

// TargetKind tags the entity a notification points at.
type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
	TargetUser    TargetKind = "user"
)

// Valid reports whether k is a known kind.
func (k TargetKind) Valid() bool {
	switch k {
	case TargetPost, TargetComment, TargetUser:
		return true
	}
	return false
}

// Target is a reference to a Post, Comment or User.
type Target struct {
	Kind TargetKind `json:"kind"`
	ID   uint       `json:"id"`
}

// Notification is an append-only event addressed to a recipient. Only Unread
// ever changes after creation, and only from true to false.
type Notification struct {
	ID          string     `json:"id" gorm:"primaryKey;size:36" bson:"_id"`
	RecipientID uint       `json:"recipient" gorm:"index:idx_notifications_recipient_created,priority:1;not null" bson:"recipient_id"`
	ActorID     *uint      `json:"actor" gorm:"index" bson:"actor_id"` // nil for system events
	Verb        Verb       `json:"verb" gorm:"size:64;not null" bson:"verb"`
	TargetKind  TargetKind `json:"-" gorm:"size:20" bson:"target_kind,omitempty"`
	TargetID    *uint      `json:"-" bson:"target_id,omitempty"`
	Unread      bool       `json:"unread" gorm:"index;not null" bson:"unread"`
	CreatedAt   time.Time  `json:"timestamp" gorm:"index:idx_notifications_recipient_created,priority:2" bson:"timestamp"`
}

// Target returns the notification's target, if it has one.
func (n *Notification) Target() (Target, bool) {
	if n.TargetID == nil || !n.TargetKind.Valid() {
		return Target{}, false
	}
	return Target{Kind: n.TargetKind, ID: *n.TargetID}, true
}

// SetTarget stores t on the notification; nil clears it.
func (n *Notification) SetTarget(t *Target) {
	if t == nil {
		n.TargetKind, n.TargetID = "", nil
		return
	}
	id := t.ID
	n.TargetKind, n.TargetID = t.Kind, &id
}

// NotificationResponse includes the actor summary and the resolved target.
type NotificationResponse struct {
	Notification
	Actor  *UserCompact `json:"actor_detail"`
	Target *Target      `json:"target"`
	// TargetRepr is a short description of the target, empty when it no longer exists.
	TargetRepr string `json:"target_repr,omitempty"`
}
