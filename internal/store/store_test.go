package store

import (
	"bitwise74/event-api/db"
	"bitwise74/event-api/internal/model"
	"bitwise74/event-api/internal/service"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)

	gdb, err := db.Open(sqlite.Open(dsn))
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() { sqlDB.Close() })
	return gdb
}

func seedUser(t *testing.T, gdb *gorm.DB, id string) *model.User {
	t.Helper()

	u := &model.User{
		ID:           id,
		FullName:     "Owner " + id,
		Email:        strings.ToLower(id) + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, gdb.Create(u).Error)
	return u
}

func seedEvent(t *testing.T, gdb *gorm.DB, ownerID string, mutate ...func(*model.Event)) *model.Event {
	t.Helper()

	e := &model.Event{
		Title:       "Go Meetup",
		FormFields:  datatypes.JSON("[]"),
		CreatedByID: ownerID,
	}
	for _, m := range mutate {
		m(e)
	}

	require.NoError(t, gdb.Create(e).Error)
	return e
}

func newRegistration(event *model.Event, email, code string) *service.Registration {
	return &service.Registration{
		Event: event,
		Attendee: &model.Attendee{
			EventID:       event.ID,
			FullName:      "Ana Lopez",
			Email:         email,
			FormResponses: datatypes.JSONMap{"tshirt": "M"},
			PaymentStatus: model.PaymentPending,
			TicketCode:    code,
		},
		Ticket: &model.Ticket{
			Code:     code,
			IssuedAt: time.Now().UTC(),
		},
	}
}

func count(t *testing.T, gdb *gorm.DB, m any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, gdb.Model(m).Count(&n).Error)
	return n
}

func TestCreateRegistration(t *testing.T) {
	ctx := context.Background()

	t.Run("creates attendee and ticket", func(t *testing.T) {
		gdb := newTestDB(t)
		s := New(gdb)
		owner := seedUser(t, gdb, "owner00000000001")
		event := seedEvent(t, gdb, owner.ID)

		code := uuid.NewString()
		reg := newRegistration(event, "ana@example.com", code)

		require.NoError(t, s.CreateRegistration(ctx, reg))

		assert.NotEmpty(t, reg.Attendee.ID)
		assert.NotEmpty(t, reg.Ticket.ID)
		assert.Equal(t, reg.Attendee.ID, reg.Ticket.AttendeeID)
		assert.Equal(t, int64(1), count(t, gdb, &model.Attendee{}))
		assert.Equal(t, int64(1), count(t, gdb, &model.Ticket{}))
		assert.Equal(t, int64(0), count(t, gdb, &model.Payment{}))

		var stored model.Attendee
		require.NoError(t, gdb.Preload("Ticket").First(&stored, "id = ?", reg.Attendee.ID).Error)
		assert.Equal(t, code, stored.TicketCode)
		require.NotNil(t, stored.Ticket)
		assert.Equal(t, code, stored.Ticket.Code)
		assert.Equal(t, "M", stored.FormResponses["tshirt"])
		assert.False(t, stored.CheckedIn)
	})

	t.Run("stores payment", func(t *testing.T) {
		gdb := newTestDB(t)
		s := New(gdb)
		owner := seedUser(t, gdb, "owner00000000002")
		amount := 25.5
		event := seedEvent(t, gdb, owner.ID, func(e *model.Event) {
			e.RequiresPayment = true
			e.Amount = &amount
		})

		reg := newRegistration(event, "ana@example.com", uuid.NewString())
		reg.Payment = &model.Payment{Amount: amount, Status: model.PaymentSuccess}

		require.NoError(t, s.CreateRegistration(ctx, reg))

		var p model.Payment
		require.NoError(t, gdb.First(&p, "attendee_id = ?", reg.Attendee.ID).Error)
		assert.Equal(t, amount, p.Amount)
		assert.Equal(t, model.PaymentSuccess, p.Status)
	})

	t.Run("duplicate email for the same event", func(t *testing.T) {
		gdb := newTestDB(t)
		s := New(gdb)
		owner := seedUser(t, gdb, "owner00000000003")
		event := seedEvent(t, gdb, owner.ID)

		require.NoError(t, s.CreateRegistration(ctx, newRegistration(event, "ana@example.com", uuid.NewString())))

		err := s.CreateRegistration(ctx, newRegistration(event, "ana@example.com", uuid.NewString()))
		assert.ErrorIs(t, err, service.ErrAlreadyRegistered)
		assert.Equal(t, int64(1), count(t, gdb, &model.Attendee{}))
		assert.Equal(t, int64(1), count(t, gdb, &model.Ticket{}))
	})

	t.Run("same email for another event", func(t *testing.T) {
		gdb := newTestDB(t)
		s := New(gdb)
		owner := seedUser(t, gdb, "owner00000000004")
		first := seedEvent(t, gdb, owner.ID)
		second := seedEvent(t, gdb, owner.ID)

		require.NoError(t, s.CreateRegistration(ctx, newRegistration(first, "ana@example.com", uuid.NewString())))
		require.NoError(t, s.CreateRegistration(ctx, newRegistration(second, "ana@example.com", uuid.NewString())))
		assert.Equal(t, int64(2), count(t, gdb, &model.Attendee{}))
	})

	t.Run("missing event writes nothing", func(t *testing.T) {
		gdb := newTestDB(t)
		s := New(gdb)

		ghost := &model.Event{ID: uuid.NewString()}

		err := s.CreateRegistration(ctx, newRegistration(ghost, "ana@example.com", uuid.NewString()))
		assert.ErrorIs(t, err, service.ErrEventNotFound)
		assert.Equal(t, int64(0), count(t, gdb, &model.Attendee{}))
		assert.Equal(t, int64(0), count(t, gdb, &model.Ticket{}))
	})

	t.Run("closed event", func(t *testing.T) {
		gdb := newTestDB(t)
		s := New(gdb)
		owner := seedUser(t, gdb, "owner00000000005")
		event := seedEvent(t, gdb, owner.ID, func(e *model.Event) { e.IsClosed = true })

		err := s.CreateRegistration(ctx, newRegistration(event, "ana@example.com", uuid.NewString()))
		assert.ErrorIs(t, err, service.ErrEventClosed)
		assert.Equal(t, int64(0), count(t, gdb, &model.Attendee{}))
	})

	t.Run("failed ticket insert rolls back the attendee", func(t *testing.T) {
		gdb := newTestDB(t)
		s := New(gdb)
		owner := seedUser(t, gdb, "owner00000000006")
		event := seedEvent(t, gdb, owner.ID)

		code := uuid.NewString()
		require.NoError(t, s.CreateRegistration(ctx, newRegistration(event, "ana@example.com", code)))

		// Different person, colliding ticket code
		err := s.CreateRegistration(ctx, newRegistration(event, "ben@example.com", code))
		require.Error(t, err)
		assert.Equal(t, int64(1), count(t, gdb, &model.Attendee{}))
		assert.Equal(t, int64(1), count(t, gdb, &model.Ticket{}))
	})
}

func TestAttendeeExistsAndFindEvent(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	s := New(gdb)
	owner := seedUser(t, gdb, "owner00000000007")
	event := seedEvent(t, gdb, owner.ID)

	found, err := s.AttendeeExists(ctx, event.ID, "ana@example.com")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.CreateRegistration(ctx, newRegistration(event, "ana@example.com", uuid.NewString())))

	found, err = s.AttendeeExists(ctx, event.ID, "ana@example.com")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = s.AttendeeExists(ctx, "not-a-uuid", "ana@example.com")
	require.NoError(t, err)
	assert.False(t, found)

	got, err := s.FindEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go Meetup", got.Title)

	_, err = s.FindEvent(ctx, uuid.NewString())
	assert.ErrorIs(t, err, service.ErrEventNotFound)

	_, err = s.FindEvent(ctx, "1")
	assert.ErrorIs(t, err, service.ErrEventNotFound)
}

func TestCheckIn(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*gorm.DB, *Store, *model.User, *service.Registration) {
		gdb := newTestDB(t)
		s := New(gdb)
		owner := seedUser(t, gdb, "owner00000000008")
		event := seedEvent(t, gdb, owner.ID)

		reg := newRegistration(event, "ana@example.com", uuid.NewString())
		require.NoError(t, s.CreateRegistration(ctx, reg))

		return gdb, s, owner, reg
	}

	t.Run("marks ticket and attendee", func(t *testing.T) {
		gdb, s, owner, reg := setup(t)
		now := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)

		res, err := s.CheckIn(ctx, reg.Ticket.ID, owner.ID, now)
		require.NoError(t, err)
		assert.False(t, res.AlreadyCheckedIn)
		assert.Equal(t, reg.Ticket.ID, res.TicketID)
		assert.Equal(t, reg.Attendee.ID, res.AttendeeID)
		assert.True(t, now.Equal(res.CheckedInAt))

		var ticket model.Ticket
		require.NoError(t, gdb.First(&ticket, "id = ?", reg.Ticket.ID).Error)
		assert.True(t, ticket.CheckedIn)
		require.NotNil(t, ticket.CheckedInAt)
		assert.True(t, now.Equal(*ticket.CheckedInAt))

		var attendee model.Attendee
		require.NoError(t, gdb.First(&attendee, "id = ?", reg.Attendee.ID).Error)
		assert.True(t, attendee.CheckedIn)
	})

	t.Run("second check-in keeps the first time", func(t *testing.T) {
		_, s, owner, reg := setup(t)
		first := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)

		_, err := s.CheckIn(ctx, reg.Ticket.ID, owner.ID, first)
		require.NoError(t, err)

		res, err := s.CheckIn(ctx, reg.Ticket.ID, owner.ID, first.Add(time.Hour))
		require.NoError(t, err)
		assert.True(t, res.AlreadyCheckedIn)
		assert.True(t, first.Equal(res.CheckedInAt))
	})

	t.Run("unknown ticket", func(t *testing.T) {
		_, s, owner, _ := setup(t)

		_, err := s.CheckIn(ctx, uuid.NewString(), owner.ID, time.Now())
		assert.ErrorIs(t, err, service.ErrTicketNotFound)

		_, err = s.CheckIn(ctx, "garbage", owner.ID, time.Now())
		assert.ErrorIs(t, err, service.ErrTicketNotFound)
	})

	t.Run("only the event creator", func(t *testing.T) {
		gdb, s, _, reg := setup(t)
		stranger := seedUser(t, gdb, "stranger00000001")

		_, err := s.CheckIn(ctx, reg.Ticket.ID, stranger.ID, time.Now())
		assert.ErrorIs(t, err, service.ErrNotEventOwner)

		var ticket model.Ticket
		require.NoError(t, gdb.First(&ticket, "id = ?", reg.Ticket.ID).Error)
		assert.False(t, ticket.CheckedIn)
		assert.Nil(t, ticket.CheckedInAt)
	})

	t.Run("attendee update failure rolls back the ticket", func(t *testing.T) {
		gdb, s, owner, reg := setup(t)

		err := gdb.Callback().Update().Before("gorm:update").Register("test:fail_attendee", func(tx *gorm.DB) {
			if tx.Statement.Table == "attendees" {
				tx.AddError(errors.New("disk on fire"))
			}
		})
		require.NoError(t, err)

		_, err = s.CheckIn(ctx, reg.Ticket.ID, owner.ID, time.Now())
		require.Error(t, err)

		var ticket model.Ticket
		require.NoError(t, gdb.First(&ticket, "id = ?", reg.Ticket.ID).Error)
		assert.False(t, ticket.CheckedIn)
		assert.Nil(t, ticket.CheckedInAt)
	})
}

func TestCloseEndedEvents(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	s := New(gdb)
	owner := seedUser(t, gdb, "owner00000000009")

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	ended := seedEvent(t, gdb, owner.ID, func(e *model.Event) { e.EndsAt = &past })
	upcoming := seedEvent(t, gdb, owner.ID, func(e *model.Event) { e.EndsAt = &future })
	alreadyClosed := seedEvent(t, gdb, owner.ID, func(e *model.Event) {
		e.EndsAt = &past
		e.IsClosed = true
	})
	openEnded := seedEvent(t, gdb, owner.ID)

	ids, err := s.CloseEndedEvents(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, []string{ended.ID}, ids)

	isClosed := func(id string) bool {
		var e model.Event
		require.NoError(t, gdb.First(&e, "id = ?", id).Error)
		return e.IsClosed
	}

	assert.True(t, isClosed(ended.ID))
	assert.False(t, isClosed(upcoming.ID))
	assert.True(t, isClosed(alreadyClosed.ID))
	assert.False(t, isClosed(openEnded.ID))

	ids, err = s.CloseEndedEvents(ctx, now)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestClearExpiredResetTokens(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	s := New(gdb)

	now := time.Now().UTC()
	expired, valid := now.Add(-time.Minute), now.Add(time.Hour)
	tokA, tokB := "a", "b"

	stale := seedUser(t, gdb, "staleuser0000001")
	fresh := seedUser(t, gdb, "freshuser0000001")
	require.NoError(t, gdb.Model(stale).Updates(map[string]any{"reset_token": tokA, "reset_token_expiry": expired}).Error)
	require.NoError(t, gdb.Model(fresh).Updates(map[string]any{"reset_token": tokB, "reset_token_expiry": valid}).Error)

	n, err := s.ClearExpiredResetTokens(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var u model.User
	require.NoError(t, gdb.First(&u, "id = ?", stale.ID).Error)
	assert.Nil(t, u.ResetToken)
	assert.Nil(t, u.ResetTokenExpiry)

	var kept model.User
	require.NoError(t, gdb.First(&kept, "id = ?", fresh.ID).Error)
	require.NotNil(t, kept.ResetToken)
	assert.Equal(t, tokB, *kept.ResetToken)
}
