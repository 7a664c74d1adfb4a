package model

import "time"

type ModerationAction struct {
	Id          int64     `db:"id" json:"id"`
	UserId      int64     `db:"user_id" json:"userId"`
	AdminId     int64     `db:"admin_id" json:"adminId"`
	ContentType string    `db:"content_type" json:"contentType"`
	ContentId   int64     `db:"content_id" json:"contentId"`
	Action      string    `db:"action" json:"action"`
	Reason      string    `db:"reason" json:"reason"`
	AdminNote   string    `db:"admin_note" json:"adminNote"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
