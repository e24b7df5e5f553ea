//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"

	"yoohoo/internal/catalog"
	"yoohoo/internal/db"
	"yoohoo/internal/model"
)

func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("yoohoo"),
		postgres.WithUsername("yoohoo"),
		postgres.WithPassword("yoohoo"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(ctr) })

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	gdb, err := db.Open(ctx, "postgres", dsn, false)
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(model.All()...))
	return gdb
}

func TestRepositoriesAgainstPostgres(t *testing.T) {
	gdb := setupPostgres(t)
	ctx := context.Background()

	users := NewUserRepository(gdb)
	exchanges := NewExchangeRepository(gdb)
	messages := NewMessageRepository(gdb)
	notifications := NewNotificationRepository(gdb)
	categories := NewCategoryRepository(gdb)
	verifications := NewVerificationRepository(gdb)

	alice := &model.User{ID: "alice", DisplayName: "Alice", Location: "Austin, TX", SkillsOffered: []string{"guitar"}}
	bob := &model.User{ID: "bob", DisplayName: "Bob", Location: "Boston"}
	require.NoError(t, users.Create(ctx, alice))
	require.NoError(t, users.Create(ctx, bob))
	assert.Equal(t, model.TierStoneDropper, alice.Tier)

	t.Run("user filters", func(t *testing.T) {
		got, err := users.List(ctx, UserFilter{Location: "austin"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, []string{"guitar"}, got[0].SkillsOffered)

		err = users.UpdateFields(ctx, "nobody", map[string]any{"tier": model.TierWaveMaker})
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	ex := &model.SkillExchange{RequesterID: "alice", ProviderID: "bob", SkillOffered: "guitar", SkillRequested: "cooking"}
	require.NoError(t, exchanges.Create(ctx, ex))

	t.Run("exchange listing and counts", func(t *testing.T) {
		asProvider, err := exchanges.ListForUser(ctx, "bob", "", RoleProvider)
		require.NoError(t, err)
		assert.Len(t, asProvider, 1)

		none, err := exchanges.ListForUser(ctx, "bob", "", RoleRequester)
		require.NoError(t, err)
		assert.Empty(t, none)

		c, err := exchanges.CountForUser(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, ExchangeCounts{AsRequester: 1}, c)

		stale, err := exchanges.ListPendingBefore(ctx, time.Now().Add(time.Hour))
		require.NoError(t, err)
		assert.Len(t, stale, 1)
	})

	t.Run("transaction rolls back", func(t *testing.T) {
		err := exchanges.WithTransaction(ctx, func(ctx context.Context, tx Tx) error {
			locked, err := tx.Exchanges.FindByIDForUpdate(ctx, ex.ID)
			require.NoError(t, err)
			locked.Status = model.ExchangeStatusAccepted
			require.NoError(t, tx.Exchanges.Update(ctx, locked))
			return assert.AnError
		})
		require.ErrorIs(t, err, assert.AnError)

		got, err := exchanges.FindByID(ctx, ex.ID)
		require.NoError(t, err)
		assert.Equal(t, model.ExchangeStatusPending, got.Status)
	})

	t.Run("messages mark read", func(t *testing.T) {
		require.NoError(t, messages.Create(ctx, &model.Message{ExchangeID: ex.ID, SenderID: "alice", Content: "hi", Type: model.MessageTypeText}))
		require.NoError(t, messages.Create(ctx, &model.Message{ExchangeID: ex.ID, SenderID: "bob", Content: "hey", Type: model.MessageTypeText}))

		n, err := messages.MarkRead(ctx, ex.ID, "bob", time.Now())
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("notifications", func(t *testing.T) {
		note := &model.Notification{UserID: "bob", Type: model.NotificationExchangeRequest, Title: "New", Message: "request"}
		require.NoError(t, notifications.Create(ctx, note))

		unread, err := notifications.ListForUser(ctx, "bob", true)
		require.NoError(t, err)
		assert.Len(t, unread, 1)

		assert.ErrorIs(t, notifications.MarkRead(ctx, note.ID, "alice"), gorm.ErrRecordNotFound)
		require.NoError(t, notifications.MarkRead(ctx, note.ID, "bob"))
		assert.ErrorIs(t, notifications.MarkRead(ctx, uuid.New(), "bob"), gorm.ErrRecordNotFound)
	})

	t.Run("verification upsert", func(t *testing.T) {
		v := &model.Verification{UserID: "bob", Type: "background_check", Status: model.ReviewPending}
		require.NoError(t, verifications.Upsert(ctx, v))
		now := time.Now()
		v2 := &model.Verification{UserID: "bob", Type: "background_check", Status: model.ReviewApproved, VerifiedAt: &now, VerifiedBy: "admin"}
		require.NoError(t, verifications.Upsert(ctx, v2))

		got, err := verifications.ListByUser(ctx, "bob")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, model.ReviewApproved, got[0].Status)
	})

	t.Run("category seed is idempotent", func(t *testing.T) {
		require.NoError(t, categories.Upsert(ctx, catalog.LaunchCategories()))
		require.NoError(t, categories.Upsert(ctx, catalog.LaunchCategories()))

		got, err := categories.List(ctx)
		require.NoError(t, err)
		require.Len(t, got, 13)
		assert.False(t, got[0].ComingSoon)
		require.NotNil(t, got[0].Requirement)
	})
}

func TestMarketplaceRepositoriesAgainstPostgres(t *testing.T) {
	gdb := setupPostgres(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	t.Run("insurance reminders", func(t *testing.T) {
		repo := NewInsuranceRepository(gdb)
		due := now.Add(-time.Hour)
		later := now.Add(48 * time.Hour)
		approved := &model.InsurancePolicy{
			UserID: "carol", InsuranceType: "general_liability", PolicyNumber: "GL-1", InsuranceCompany: "Acme",
			ExpirationDate: now.AddDate(0, 0, 20), Status: model.InsuranceApproved, ReminderAt: &due,
		}
		pending := &model.InsurancePolicy{
			UserID: "carol", InsuranceType: "professional_liability", PolicyNumber: "PL-1", InsuranceCompany: "Acme",
			ExpirationDate: now.AddDate(0, 0, 20), Status: model.InsurancePendingVerification, ReminderAt: &due,
		}
		notYet := &model.InsurancePolicy{
			UserID: "carol", InsuranceType: "auto", PolicyNumber: "AU-1", InsuranceCompany: "Acme",
			ExpirationDate: now.AddDate(0, 0, 40), Status: model.InsuranceApproved, ReminderAt: &later,
		}
		for _, p := range []*model.InsurancePolicy{approved, pending, notYet} {
			require.NoError(t, repo.Create(ctx, p))
		}

		got, err := repo.ListDueReminders(ctx, now)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, approved.ID, got[0].ID)

		require.NoError(t, repo.MarkReminded(ctx, approved.ID, now))
		got, err = repo.ListDueReminders(ctx, now)
		require.NoError(t, err)
		assert.Empty(t, got)

		expiring, err := repo.ListExpiring(ctx, "carol", now, now.AddDate(0, 0, 30))
		require.NoError(t, err)
		require.Len(t, expiring, 1)
		assert.Equal(t, "GL-1", expiring[0].PolicyNumber)
	})

	t.Run("reminder prefs upsert", func(t *testing.T) {
		repo := NewInsuranceRepository(gdb)
		require.NoError(t, repo.SaveReminderPrefs(ctx, &model.InsuranceReminderPrefs{UserID: "carol", EmailReminders: true, ReminderDays: []int{30}}))
		require.NoError(t, repo.SaveReminderPrefs(ctx, &model.InsuranceReminderPrefs{UserID: "carol", SMSReminders: true, ReminderDays: []int{7, 1}}))

		got, err := repo.FindReminderPrefs(ctx, "carol")
		require.NoError(t, err)
		assert.False(t, got.EmailReminders)
		assert.True(t, got.SMSReminders)
		assert.Equal(t, []int{7, 1}, got.ReminderDays)
	})

	t.Run("odd job assignment", func(t *testing.T) {
		repo := NewAngelRepository(gdb)
		job := &model.AngelJob{PostedBy: "dana", Title: "Move a couch", Description: "Third floor", Category: "moving",
			Location: model.JobLocation{City: "Austin"}, Urgency: "high", Status: model.AngelJobOpen}
		require.NoError(t, repo.CreateJob(ctx, job))
		for _, uid := range []string{"erin", "finn"} {
			require.NoError(t, repo.CreateApplication(ctx, &model.AngelApplication{JobID: job.ID, ApplicantID: uid, Status: model.ApplicationPending}))
		}
		dup := &model.AngelApplication{JobID: job.ID, ApplicantID: "erin", Status: model.ApplicationPending}
		assert.Error(t, repo.CreateApplication(ctx, dup))

		jobs, total, err := repo.ListJobs(ctx, AngelJobFilter{City: "aus", Status: model.AngelJobOpen, Search: "COUCH", Limit: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, jobs, 1)

		counts, err := repo.CountApplications(ctx, []uuid.UUID{job.ID})
		require.NoError(t, err)
		assert.EqualValues(t, 2, counts[job.ID])

		err = repo.WithTransaction(ctx, func(ctx context.Context, tx AngelRepository) error {
			locked, err := tx.FindJobForUpdate(ctx, job.ID)
			if err != nil {
				return err
			}
			locked.Status = model.AngelJobAssigned
			locked.AssignedTo = "erin"
			if err := tx.UpdateJob(ctx, locked); err != nil {
				return err
			}
			_, err = tx.RejectPendingExcept(ctx, job.ID, "erin", "Position filled", now)
			return err
		})
		require.NoError(t, err)

		finn, err := repo.FindApplication(ctx, job.ID, "finn")
		require.NoError(t, err)
		assert.Equal(t, model.ApplicationRejected, finn.Status)
		erin, err := repo.FindApplication(ctx, job.ID, "erin")
		require.NoError(t, err)
		assert.Equal(t, model.ApplicationPending, erin.Status)
	})

	t.Run("guru counters", func(t *testing.T) {
		repo := NewGuruRepository(gdb)
		require.NoError(t, repo.IncrementStat(ctx, "cooking", StatMonthlyVisitors))
		require.NoError(t, repo.IncrementStat(ctx, "cooking", StatMonthlyVisitors))
		require.NoError(t, repo.IncrementStat(ctx, "cooking", StatLeads))
		assert.Error(t, repo.IncrementStat(ctx, "cooking", GuruStat("bogus")))

		st, err := repo.Stats(ctx, "cooking")
		require.NoError(t, err)
		assert.EqualValues(t, 2, st.MonthlyVisitors)
		assert.EqualValues(t, 1, st.TotalLeads)

		n, err := repo.ResetMonthlyVisitors(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
		st, err = repo.Stats(ctx, "cooking")
		require.NoError(t, err)
		assert.Zero(t, st.MonthlyVisitors)
		assert.EqualValues(t, 1, st.TotalLeads)
	})
}
