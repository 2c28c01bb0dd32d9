package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sumire/jobboard/internal/domain"
	"github.com/sumire/jobboard/internal/live"
)

func TestNotificationService_Notify(t *testing.T) {
	ctx := context.Background()
	store := &mockNotificationStore{}
	svc := NewNotificationService(store, &mockJobStore{}, nil, discardLogger())
	job := domain.JobPosting{ID: 5, Title: "Garzón"}

	store.On("Create", ctx, mock.MatchedBy(func(n domain.Notification) bool {
		return n.UserID == 9 &&
			n.Type == domain.NotificationNewJob &&
			n.Message == "New job posting: Garzón" &&
			n.Payload == domain.NotificationPayload{JobID: 5, Applied: false}
	})).Return(int64(77), nil)

	id, err := svc.Notify(ctx, 9, job)

	require.NoError(t, err)
	assert.Equal(t, int64(77), id)
}

func TestNotificationService_NotifyNewJob(t *testing.T) {
	ctx := context.Background()
	store := &mockNotificationStore{}
	bcast := &mockBroadcaster{}
	svc := NewNotificationService(store, &mockJobStore{}, bcast, discardLogger())
	job := domain.JobPosting{ID: 5, Title: "Garzón"}

	store.On("Create", ctx, domain.NewJobNotification(1, job)).Return(int64(1), nil)
	store.On("Create", ctx, domain.NewJobNotification(2, job)).Return(int64(0), errors.New("fk"))
	store.On("Create", ctx, domain.NewJobNotification(3, job)).Return(int64(3), nil)
	bcast.On("Broadcast", ctx, live.NewJobEvent(job)).Return(nil).Once()

	sent := svc.NotifyNewJob(ctx, job, []int64{1, 2, 3})

	assert.Equal(t, 2, sent)
	store.AssertExpectations(t)
	bcast.AssertExpectations(t)
}

func TestNotificationService_NotifyUser(t *testing.T) {
	ctx := context.Background()

	t.Run("missing job", func(t *testing.T) {
		jobs := &mockJobStore{}
		store := &mockNotificationStore{}
		jobs.On("FindByID", ctx, int64(8)).Return(nil, domain.ErrNotFound)

		_, err := NewNotificationService(store, jobs, nil, discardLogger()).NotifyUser(ctx, 8, 1)

		assert.ErrorIs(t, err, domain.ErrNotFound)
		store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("stores entry", func(t *testing.T) {
		jobs := &mockJobStore{}
		store := &mockNotificationStore{}
		job := &domain.JobPosting{ID: 8, Title: "Bodeguero"}
		jobs.On("FindByID", ctx, int64(8)).Return(job, nil)
		store.On("Create", ctx, domain.NewJobNotification(1, *job)).Return(int64(42), nil)

		id, err := NewNotificationService(store, jobs, nil, discardLogger()).NotifyUser(ctx, 8, 1)

		require.NoError(t, err)
		assert.Equal(t, int64(42), id)
	})
}

func TestNotificationService_MarkReadIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := &mockNotificationStore{}
	store.On("MarkRead", ctx, int64(3)).Return(nil).Twice()
	store.On("MarkRead", ctx, int64(4)).Return(domain.ErrNotFound)
	svc := NewNotificationService(store, &mockJobStore{}, nil, discardLogger())

	require.NoError(t, svc.MarkRead(ctx, 3))
	require.NoError(t, svc.MarkRead(ctx, 3))
	assert.ErrorIs(t, svc.MarkRead(ctx, 4), domain.ErrNotFound)
}
