package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classroom_backend/internals/features/users/messages/dto"
	messageModel "classroom_backend/internals/features/users/messages/model"
	helper "classroom_backend/internals/helpers"
	"classroom_backend/internals/testutil"
)

var firstPage = helper.Paging{Page: 1, PerPage: 20, Offset: 0, Limit: 20}

func TestSendValidatesRecipient(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewMessageService(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	testutil.CreateUser(t, db, "bob")

	_, res, err := svc.Send(ctx, alice.ID, dto.SendMessageRequest{Recipient: "nobody", Subject: "s", Body: "b"})
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, MsgUserNotFound, res.Message)

	_, res, err = svc.Send(ctx, alice.ID, dto.SendMessageRequest{Recipient: "Alice", Subject: "s", Body: "b"})
	require.NoError(t, err)
	assert.Equal(t, MsgCannotMessage, res.Message)

	m, res, err := svc.Send(ctx, alice.ID, dto.SendMessageRequest{Recipient: "BOB", Subject: "hi", Body: "hello"})
	require.NoError(t, err)
	require.True(t, res.OK())
	assert.False(t, m.MessageIsRead)
}

func TestDetailMarksReadOnlyForRecipient(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewMessageService(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	eve := testutil.CreateUser(t, db, "eve")

	m, _, err := svc.Send(ctx, alice.ID, dto.SendMessageRequest{Recipient: "bob", Subject: "hi", Body: "hello"})
	require.NoError(t, err)

	n, err := svc.UnreadCount(ctx, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	// pengirim membuka → tetap unread
	row, err := svc.Detail(ctx, alice.ID, m.MessageID)
	require.NoError(t, err)
	assert.False(t, row.MessageIsRead)
	assert.Equal(t, "bob", row.RecipientUserName)

	_, err = svc.Detail(ctx, eve.ID, m.MessageID)
	assert.ErrorIs(t, err, ErrMessageNotFound)

	row, err = svc.Detail(ctx, bob.ID, m.MessageID)
	require.NoError(t, err)
	assert.True(t, row.MessageIsRead)
	require.NotNil(t, row.MessageReadAt)

	n, err = svc.UnreadCount(ctx, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	inbox, total, err := svc.Inbox(ctx, bob.ID, false, firstPage)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "alice", inbox[0].SenderUserName)

	_, total, err = svc.Inbox(ctx, bob.ID, true, firstPage)
	require.NoError(t, err)
	assert.Zero(t, total)

	sent, total, err := svc.Sent(ctx, alice.ID, firstPage)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, m.MessageID, sent[0].MessageID)
}

func TestContactsSearchAndSort(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewMessageService(db)
	ctx := context.Background()

	me := testutil.CreateUser(t, db, "me")
	zed := testutil.CreateUser(t, db, "zed")
	amy := testutil.CreateUser(t, db, "amy")
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	msgs := []messageModel.MessageModel{
		{MessageSenderUserID: amy.ID, MessageRecipientUserID: me.ID, MessageSubject: "1", MessageBody: "x", MessageCreatedAt: base},
		{MessageSenderUserID: amy.ID, MessageRecipientUserID: me.ID, MessageSubject: "2", MessageBody: "x", MessageCreatedAt: base.Add(time.Hour)},
		{MessageSenderUserID: me.ID, MessageRecipientUserID: zed.ID, MessageSubject: "3", MessageBody: "x", MessageCreatedAt: base.Add(2 * time.Hour)},
	}
	require.NoError(t, db.Create(&msgs).Error)

	got, err := svc.Contacts(ctx, me.ID, dto.ContactsQuery{Sort: "recent"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "zed", got[0].UserName)
	assert.Equal(t, 0, got[0].UnreadCount)
	assert.Equal(t, "amy", got[1].UserName)
	assert.Equal(t, 2, got[1].UnreadCount)

	got, err = svc.Contacts(ctx, me.ID, dto.ContactsQuery{Sort: "name"})
	require.NoError(t, err)
	assert.Equal(t, "amy", got[0].UserName)

	got, err = svc.Contacts(ctx, me.ID, dto.ContactsQuery{Q: "ZE"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, zed.ID, got[0].UserID)

	got, err = svc.Contacts(ctx, zed.ID, dto.ContactsQuery{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "me", got[0].UserName)
}
