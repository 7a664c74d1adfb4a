package mysql

import (
	"context"

	"github.com/upper/db/v4"
)

func (d *MySQLDB) GetTopicsForUser(ctx context.Context, userId int64) ([]string, error) {
	rows, err := d.sess.SQL().QueryContext(ctx,
		"SELECT topic FROM user_topics WHERE user_id = ? ORDER BY topic", userId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	topics := []string{}
	for rows.Next() {
		var topic string
		if err := rows.Scan(&topic); err != nil {
			return nil, err
		}
		topics = append(topics, topic)
	}
	return topics, rows.Err()
}

func (d *MySQLDB) AddTopicsForUser(ctx context.Context, userId int64, topics []string) error {
	if len(topics) == 0 {
		return nil
	}
	for _, topic := range topics {
		// INSERT IGNORE keeps the operation idempotent under the primary key
		// on (user_id, topic).
		_, err := d.sess.SQL().ExecContext(ctx,
			"INSERT IGNORE INTO user_topics (user_id, topic) VALUES (?, ?)", userId, topic)
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *MySQLDB) RemoveTopicsForUser(ctx context.Context, userId int64, topics []string) error {
	if len(topics) == 0 {
		return nil
	}
	_, err := d.sess.SQL().
		DeleteFrom("user_topics").
		Where("user_id = ? AND topic IN ?", userId, topics).
		ExecContext(ctx)
	return err
}

func (d *MySQLDB) ReplaceTopicsForUser(ctx context.Context, userId int64, topics []string) error {
	return d.sess.TxContext(ctx, func(tx db.Session) error {
		if _, err := tx.SQL().
			DeleteFrom("user_topics").
			Where("user_id = ?", userId).
			ExecContext(ctx); err != nil {
			return err
		}
		for _, topic := range topics {
			if _, err := tx.SQL().ExecContext(ctx,
				"INSERT IGNORE INTO user_topics (user_id, topic) VALUES (?, ?)", userId, topic); err != nil {
				return err
			}
		}
		return nil
	}, nil)
}

func (d *MySQLDB) GetMembershipTagUnion(ctx context.Context, userId int64) ([]string, error) {
	rows, err := d.sess.SQL().QueryContext(ctx,
		`SELECT communities.tags
		 FROM communities
		 JOIN community_members ON community_members.community_id = communities.id
		 WHERE community_members.user_id = ?`, userId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seen := map[string]bool{}
	union := []string{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		for _, tag := range unmarshalStrings(raw) {
			if !seen[tag] {
				seen[tag] = true
				union = append(union, tag)
			}
		}
	}
	return union, rows.Err()
}
