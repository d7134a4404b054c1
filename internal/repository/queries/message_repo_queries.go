package queries

// seq (bigserial) держит порядок вставки при равных created_at.
const (
	QueryInsertRoomMessage = `
		INSERT INTO room_messages (id, room, username, text, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	QueryRecentRoomMessages = `
		SELECT id, room, username, text, created_at
		FROM room_messages
		WHERE room = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT $2;
	`
	QueryInsertDirectMessage = `
		INSERT INTO direct_messages (id, sender_id, receiver_id, text, type, client_message_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	QueryDirectThread = `
		SELECT id, sender_id, receiver_id, text, type, client_message_id, created_at
		FROM direct_messages
		WHERE LEAST(sender_id, receiver_id) = LEAST($1::uuid, $2::uuid)
		  AND GREATEST(sender_id, receiver_id) = GREATEST($1::uuid, $2::uuid)
		ORDER BY created_at DESC, seq DESC
		LIMIT $3;
	`
)
