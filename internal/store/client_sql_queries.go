// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The chatthy Authors

package store

const (
	cacheUpsertSession = `
		INSERT INTO sessions (
			id,
			title,
			backend,
			created_at,
			last_activity_at
		) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET title = excluded.title,
		    backend = excluded.backend,
		    last_activity_at = excluded.last_activity_at;`

	cacheUpsertMessage = `
		INSERT INTO messages (
			id,
			session_id,
			seq,
			role,
			content,
			status,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET content = excluded.content,
		    status = excluded.status;`

	cacheGetSession = `
		SELECT id, title, backend, created_at, last_activity_at
		FROM sessions
		WHERE id = $1;`

	cacheGetMessages = `
		SELECT id, session_id, seq, role, content, status, created_at
		FROM messages
		WHERE session_id = $1
		ORDER BY seq ASC;`

	cacheListSessions = `
		SELECT s.id, s.title, s.backend, s.created_at, s.last_activity_at, COUNT(m.id)
		FROM sessions s
		LEFT JOIN messages m ON m.session_id = s.id
		GROUP BY s.id
		ORDER BY s.last_activity_at DESC;`

	cacheDeleteSession = `DELETE FROM sessions WHERE id = $1;`

	cacheDeleteMessages = `DELETE FROM messages WHERE session_id = $1;`
)
