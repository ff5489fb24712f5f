package gorm_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/nutricoach/v1/internal/domain/health"
	"github.com/nutricoach/v1/internal/domain/mealplan"
	"github.com/nutricoach/v1/internal/domain/user"
	gormrepo "github.com/nutricoach/v1/internal/infrastructure/persistence/gorm"
	"github.com/nutricoach/v1/internal/infrastructure/persistence/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormdb "gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gormdb.DB {
	t.Helper()
	db, err := sqlite.SetupDatabase("", gormlogger.Silent)
	require.NoError(t, err)
	return db
}

func fakeProfile(t *testing.T) *user.Profile {
	t.Helper()
	profile, err := user.NewProfile(gofakeit.UUID())
	require.NoError(t, err)
	err = profile.UpdateProfileData(
		gofakeit.Number(50, 120),
		gofakeit.Number(150, 200),
		gofakeit.Number(18, 80),
		gofakeit.RandomString([]string{"Male", "Female"}),
		"Lose weight",
		gofakeit.RandomString([]string{"vegan", "vegetarian", "omnivore"}),
		"sedentary",
	)
	require.NoError(t, err)
	return profile
}

func fakePlan(userID string) *mealplan.Plan {
	draft := &mealplan.Draft{
		Name:        gofakeit.Sentence(3),
		Description: gofakeit.Sentence(8),
	}
	for _, weekday := range mealplan.Weekdays {
		draft.Plan = append(draft.Plan, mealplan.DayDraft{
			MealSlot:  weekday,
			Breakfast: gofakeit.Breakfast(),
			Lunch:     gofakeit.Lunch(),
			Dinner:    gofakeit.Dinner(),
			Snack:     gofakeit.Snack(),
			Macros:    fmt.Sprintf("%d kcal", gofakeit.Number(1500, 2500)),
		})
	}
	return draft.ToPlan(userID)
}

func TestUserRepositoryRoundTrip(t *testing.T) {
	repo := gormrepo.NewUserRepository(testDB(t))
	ctx := context.Background()

	profile := fakeProfile(t)
	require.NoError(t, repo.Create(ctx, profile))

	loaded, err := repo.FindByID(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, loaded.ID)
	require.NotNil(t, loaded.Weight)
	assert.Equal(t, *profile.Weight, *loaded.Weight)
	require.NotNil(t, loaded.BMI)
	assert.InDelta(t, *profile.BMI, *loaded.BMI, 0.001)
}

func TestUserRepositoryDuplicateCreate(t *testing.T) {
	repo := gormrepo.NewUserRepository(testDB(t))
	ctx := context.Background()

	profile := fakeProfile(t)
	require.NoError(t, repo.Create(ctx, profile))

	duplicate, err := user.NewProfile(profile.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, duplicate), user.ErrUserAlreadyExists)
}

func TestUserRepositoryFindMissing(t *testing.T) {
	repo := gormrepo.NewUserRepository(testDB(t))

	_, err := repo.FindByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	exists, err := repo.Exists(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepositoryUpdate(t *testing.T) {
	repo := gormrepo.NewUserRepository(testDB(t))
	ctx := context.Background()

	profile := fakeProfile(t)
	require.NoError(t, repo.Create(ctx, profile))

	profile.UpdateMedicalConditions("diabetes")
	require.NoError(t, repo.Update(ctx, profile))

	loaded, err := repo.FindByID(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, "diabetes", loaded.MedicalConditions)

	// Clearing a field must persist too, not be skipped as a zero value.
	profile.UpdateMedicalConditions("")
	require.NoError(t, repo.Update(ctx, profile))

	loaded, err = repo.FindByID(ctx, profile.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.MedicalConditions)
}

func TestUserRepositoryUpdateMissing(t *testing.T) {
	repo := gormrepo.NewUserRepository(testDB(t))
	ctx := context.Background()

	ghost := fakeProfile(t)
	assert.ErrorIs(t, repo.Update(ctx, ghost), user.ErrUserNotFound)

	exists, err := repo.Exists(ctx, ghost.ID)
	require.NoError(t, err)
	assert.False(t, exists, "update must never insert a new row")
}

func TestHealthReportRepositoryLatestWins(t *testing.T) {
	db := testDB(t)
	users := gormrepo.NewUserRepository(db)
	reports := gormrepo.NewHealthReportRepository(db)
	ctx := context.Background()

	profile := fakeProfile(t)
	require.NoError(t, users.Create(ctx, profile))

	first := health.NewReport(profile.ID, "first summary", "a.pdf")
	require.NoError(t, reports.Save(ctx, first))
	second := health.NewReport(profile.ID, "second summary", "b.pdf")
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	require.NoError(t, reports.Save(ctx, second))

	latest, err := reports.FindLatestByUser(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, "second summary", latest.ReportText)
	assert.Equal(t, second.ID, latest.ID)
}

func TestHealthReportRepositoryMissing(t *testing.T) {
	reports := gormrepo.NewHealthReportRepository(testDB(t))

	_, err := reports.FindLatestByUser(context.Background(), "ghost")
	assert.ErrorIs(t, err, health.ErrReportNotFound)
}

func TestMealPlanReplaceInsertsFirstPlan(t *testing.T) {
	db := testDB(t)
	users := gormrepo.NewUserRepository(db)
	plans := gormrepo.NewMealPlanRepository(db)
	ctx := context.Background()

	profile := fakeProfile(t)
	require.NoError(t, users.Create(ctx, profile))

	plan := fakePlan(profile.ID)
	require.NoError(t, plans.Replace(ctx, plan))
	assert.NotZero(t, plan.ID)

	loaded, err := plans.FindByUser(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.Name, loaded.Name)
	require.Len(t, loaded.Items, mealplan.DaysPerWeek)
	assert.Equal(t, "Monday", loaded.Items[0].MealSlot)
	for _, item := range loaded.Items {
		assert.Equal(t, plan.ID, item.PlanID)
	}
}

func TestMealPlanReplaceSupersedesOldPlan(t *testing.T) {
	db := testDB(t)
	users := gormrepo.NewUserRepository(db)
	plans := gormrepo.NewMealPlanRepository(db)
	ctx := context.Background()

	profile := fakeProfile(t)
	require.NoError(t, users.Create(ctx, profile))

	first := fakePlan(profile.ID)
	require.NoError(t, plans.Replace(ctx, first))
	second := fakePlan(profile.ID)
	require.NoError(t, plans.Replace(ctx, second))

	assert.NotEqual(t, first.ID, second.ID)

	exists, err := plans.Exists(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	loaded, err := plans.FindByUser(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, loaded.ID)
	assert.Len(t, loaded.Items, mealplan.DaysPerWeek)

	var itemCount int64
	require.NoError(t, db.Model(&gormrepo.MealPlanItemModel{}).Count(&itemCount).Error)
	assert.Equal(t, int64(mealplan.DaysPerWeek), itemCount)
}

func TestMealPlanFindMissing(t *testing.T) {
	plans := gormrepo.NewMealPlanRepository(testDB(t))

	_, err := plans.FindByUser(context.Background(), "ghost")
	assert.ErrorIs(t, err, mealplan.ErrPlanNotFound)
}
