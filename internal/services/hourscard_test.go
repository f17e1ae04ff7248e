package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shatayaglobal/Manpower/internal/database"
	"github.com/shatayaglobal/Manpower/internal/geo"
	"github.com/shatayaglobal/Manpower/internal/models"
)

var hoursCardCols = []string{
	"id", "staff_id", "shift_id", "date", "clock_in_at", "clock_out_at",
	"utc_offset_minutes", "break_start_at", "break_end_at",
	"clock_in_latitude", "clock_in_longitude", "clock_in_distance_meters",
	"notes", "worker_signature", "worker_signed_at", "status",
	"approved_by", "approved_at", "rejection_reason",
	"clocked_in_by", "clocked_out_by", "created_at", "updated_at",
}

var staffScopeCols = []string{
	"id", "business_id", "user_id", "name", "job_title", "status", "confirmed",
	"id", "owner_id", "name", "workplace_latitude", "workplace_longitude",
	"clock_in_radius_meters", "require_location_for_clock_in",
}

// 2026-03-02 14:30 UTC
var fixedNow = time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)

const (
	workplaceLat = 51.5007
	workplaceLon = -0.1246
)

// timeArg matches a time.Time argument by instant.
type timeArg time.Time

func (a timeArg) Match(v any) bool {
	t, ok := v.(time.Time)
	return ok && t.Equal(time.Time(a))
}

// timePtrArg matches a *time.Time argument by instant.
type timePtrArg time.Time

func (a timePtrArg) Match(v any) bool {
	t, ok := v.(*time.Time)
	return ok && t != nil && t.Equal(time.Time(a))
}

type floatPtrArg struct {
	want, delta float64
}

func (a floatPtrArg) Match(v any) bool {
	f, ok := v.(*float64)
	if !ok || f == nil {
		return false
	}
	diff := *f - a.want
	return diff <= a.delta && diff >= -a.delta
}

type hoursCardFixture struct {
	svc      *HoursCardService
	mock     pgxmock.PgxPoolIface
	workerID uuid.UUID
	ownerID  uuid.UUID
	staffID  uuid.UUID
	business uuid.UUID
}

func setupHoursCardService(t *testing.T) *hoursCardFixture {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	svc := NewHoursCardService(&database.DB{Pool: mock})
	svc.now = func() time.Time { return fixedNow }

	return &hoursCardFixture{
		svc:      svc,
		mock:     mock,
		workerID: uuid.New(),
		ownerID:  uuid.New(),
		staffID:  uuid.New(),
		business: uuid.New(),
	}
}

func (f *hoursCardFixture) expectStaffScope(lat, lon *float64, radius int, requireLoc bool, status string, confirmed bool) {
	f.mock.ExpectQuery(`FROM business_staff bs\s+JOIN businesses b ON b.id = bs.business_id\s+WHERE bs.id = \$1`).
		WithArgs(f.staffID).
		WillReturnRows(pgxmock.NewRows(staffScopeCols).AddRow(
			f.staffID, f.business, &f.workerID, "Amina", "Barista", status, confirmed,
			f.business, f.ownerID, "Cafe Nord", lat, lon, radius, requireLoc,
		))
}

func (f *hoursCardFixture) card(status string) models.HoursCard {
	return models.HoursCard{
		ID:          uuid.New(),
		StaffID:     f.staffID,
		Date:        time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		ClockInAt:   time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		Status:      status,
		ClockedInBy: &f.workerID,
		CreatedAt:   fixedNow,
		UpdatedAt:   fixedNow,
	}
}

func cardValues(c models.HoursCard) []any {
	return []any{
		c.ID, c.StaffID, c.ShiftID, c.Date, c.ClockInAt, c.ClockOutAt,
		c.UTCOffsetMinutes, c.BreakStartAt, c.BreakEndAt,
		c.ClockInLatitude, c.ClockInLongitude, c.ClockInDistanceMeters,
		c.Notes, c.WorkerSignature, c.WorkerSignedAt, c.Status,
		c.ApprovedBy, c.ApprovedAt, c.RejectionReason,
		c.ClockedInBy, c.ClockedOutBy, c.CreatedAt, c.UpdatedAt,
	}
}

func cardRows(c models.HoursCard) *pgxmock.Rows {
	return pgxmock.NewRows(hoursCardCols).AddRow(cardValues(c)...)
}

func (f *hoursCardFixture) expectScope(c models.HoursCard) {
	f.mock.ExpectQuery(`SELECT .+ FROM hours_cards hc\s+JOIN business_staff bs`).
		WithArgs(c.ID).
		WillReturnRows(pgxmock.NewRows(append(append([]string{}, hoursCardCols...), "user_id", "owner_id")).
			AddRow(append(cardValues(c), &f.workerID, f.ownerID)...))
}

func (f *hoursCardFixture) expectReread(c models.HoursCard) {
	f.mock.ExpectQuery(`SELECT .+ FROM hours_cards hc WHERE hc.id = \$1`).
		WithArgs(c.ID).
		WillReturnRows(cardRows(c))
}

func ptr[T any](v T) *T { return &v }

func TestHoursCardService_ClockIn_SelfWithinGeofence(t *testing.T) {
	f := setupHoursCardService(t)
	lat := geo.OffsetNorth(workplaceLat, 50)
	lon := workplaceLon

	f.expectStaffScope(ptr(workplaceLat), ptr(workplaceLon), 100, true, models.StaffStatusActive, true)

	created := f.card(models.HoursCardPending)
	created.ClockInAt = fixedNow
	f.mock.ExpectQuery(`INSERT INTO hours_cards AS hc`).
		WithArgs(
			f.staffID, (*uuid.UUID)(nil), time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), timeArg(fixedNow), (*time.Time)(nil), 0,
			&lat, &lon, floatPtrArg{want: 50, delta: 0.5},
			"on time", models.HoursCardPending, &f.workerID, (*uuid.UUID)(nil),
		).
		WillReturnRows(cardRows(created))

	card, err := f.svc.ClockIn(context.Background(), f.workerID, ClockInInput{
		StaffID:   &f.staffID,
		Notes:     " on time ",
		Latitude:  &lat,
		Longitude: &lon,
	})

	require.NoError(t, err)
	assert.Equal(t, created.ID, card.ID)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestHoursCardService_ClockIn_OutsideGeofence(t *testing.T) {
	f := setupHoursCardService(t)
	lat := geo.OffsetNorth(workplaceLat, 150)
	lon := workplaceLon

	f.expectStaffScope(ptr(workplaceLat), ptr(workplaceLon), 100, true, models.StaffStatusActive, true)

	_, err := f.svc.ClockIn(context.Background(), f.workerID, ClockInInput{
		StaffID:   &f.staffID,
		Latitude:  &lat,
		Longitude: &lon,
	})

	var geoErr *GeofenceError
	require.ErrorAs(t, err, &geoErr)
	assert.InDelta(t, 150, geoErr.DistanceMeters, 0.5)
	assert.Equal(t, 100, geoErr.RadiusMeters)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestHoursCardService_ClockIn_LocationRequired(t *testing.T) {
	f := setupHoursCardService(t)
	f.expectStaffScope(ptr(workplaceLat), ptr(workplaceLon), 100, true, models.StaffStatusActive, true)

	_, err := f.svc.ClockIn(context.Background(), f.workerID, ClockInInput{StaffID: &f.staffID})

	assert.ErrorIs(t, err, ErrLocationRequired)
}

func TestHoursCardService_ClockIn_WorkplaceNotConfigured(t *testing.T) {
	f := setupHoursCardService(t)
	f.expectStaffScope(nil, nil, 100, true, models.StaffStatusActive, true)

	_, err := f.svc.ClockIn(context.Background(), f.workerID, ClockInInput{
		StaffID:   &f.staffID,
		Latitude:  ptr(workplaceLat),
		Longitude: ptr(workplaceLon),
	})

	assert.ErrorIs(t, err, ErrWorkplaceNotConfigured)
}

func TestHoursCardService_ClockIn_InvalidCoordinate(t *testing.T) {
	f := setupHoursCardService(t)
	f.expectStaffScope(ptr(workplaceLat), ptr(workplaceLon), 100, true, models.StaffStatusActive, true)

	_, err := f.svc.ClockIn(context.Background(), f.workerID, ClockInInput{
		StaffID:   &f.staffID,
		Latitude:  ptr(95.0),
		Longitude: ptr(workplaceLon),
	})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestHoursCardService_ClockIn_LocationOptional(t *testing.T) {
	f := setupHoursCardService(t)
	f.expectStaffScope(nil, nil, 100, false, models.StaffStatusActive, true)

	created := f.card(models.HoursCardPending)
	f.mock.ExpectQuery(`INSERT INTO hours_cards`).
		WithArgs(
			f.staffID, (*uuid.UUID)(nil), pgxmock.AnyArg(), pgxmock.AnyArg(), (*time.Time)(nil), 0,
			(*float64)(nil), (*float64)(nil), (*float64)(nil),
			"", models.HoursCardPending, &f.workerID, (*uuid.UUID)(nil),
		).
		WillReturnRows(cardRows(created))

	_, err := f.svc.ClockIn(context.Background(), f.workerID, ClockInInput{StaffID: &f.staffID})

	require.NoError(t, err)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestHoursCardService_ClockIn_DuplicateForToday(t *testing.T) {
	f := setupHoursCardService(t)
	existingID := uuid.New()
	today := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	f.expectStaffScope(nil, nil, 100, false, models.StaffStatusActive, true)
	f.mock.ExpectQuery(`INSERT INTO hours_cards`).
		WithArgs(anyArgs(13)...).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "hours_cards_staff_id_date_key"})
	f.mock.ExpectQuery(`SELECT id FROM hours_cards WHERE staff_id = \$1 AND date = \$2`).
		WithArgs(f.staffID, today).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(existingID))

	_, err := f.svc.ClockIn(context.Background(), f.workerID, ClockInInput{StaffID: &f.staffID})

	var dup *DuplicateHoursCardError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, existingID, dup.ExistingID)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestHoursCardService_ClockIn_ResolvesSingleStaffRecord(t *testing.T) {
	f := setupHoursCardService(t)

	f.mock.ExpectQuery(`SELECT id FROM business_staff\s+WHERE user_id = \$1`).
		WithArgs(f.workerID, models.StaffStatusActive).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(f.staffID))
	f.expectStaffScope(nil, nil, 100, false, models.StaffStatusActive, true)
	f.mock.ExpectQuery(`INSERT INTO hours_cards`).
		WithArgs(anyArgs(13)...).
		WillReturnRows(cardRows(f.card(models.HoursCardPending)))

	_, err := f.svc.ClockIn(context.Background(), f.workerID, ClockInInput{})

	require.NoError(t, err)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestHoursCardService_ClockIn_AmbiguousStaffRecord(t *testing.T) {
	f := setupHoursCardService(t)

	f.mock.ExpectQuery(`SELECT id FROM business_staff`).
		WithArgs(f.workerID, models.StaffStatusActive).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(uuid.New()).AddRow(uuid.New()))

	_, err := f.svc.ClockIn(context.Background(), f.workerID, ClockInInput{})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestHoursCardService_ClockIn_UnconfirmedStaff(t *testing.T) {
	f := setupHoursCardService(t)
	f.expectStaffScope(nil, nil, 100, false, models.StaffStatusActive, false)

	_, err := f.svc.ClockIn(context.Background(), f.workerID, ClockInInput{StaffID: &f.staffID})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestHoursCardService_ClockIn_Stranger(t *testing.T) {
	f := setupHoursCardService(t)
	f.expectStaffScope(nil, nil, 100, false, models.StaffStatusActive, true)

	_, err := f.svc.ClockIn(context.Background(), uuid.New(), ClockInInput{StaffID: &f.staffID})

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestHoursCardService_ClockIn_OwnerBackfill(t *testing.T) {
	f := setupHoursCardService(t)
	// Workplace required, but owners bypass the geofence.
	f.expectStaffScope(ptr(workplaceLat), ptr(workplaceLon), 100, true, models.StaffStatusActive, true)

	// UTC+3 is reported as -180.
	wantIn := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	wantOut := time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)

	f.mock.ExpectQuery(`INSERT INTO hours_cards`).
		WithArgs(
			f.staffID, (*uuid.UUID)(nil), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), timeArg(wantIn), timePtrArg(wantOut), -180,
			(*float64)(nil), (*float64)(nil), (*float64)(nil),
			"", models.HoursCardPending, &f.ownerID, &f.ownerID,
		).
		WillReturnRows(cardRows(f.card(models.HoursCardPending)))

	_, err := f.svc.ClockIn(context.Background(), f.ownerID, ClockInInput{
		StaffID:        &f.staffID,
		Date:           "2026-03-01",
		ClockInTime:    "09:00",
		ClockOutTime:   "17:00",
		TimezoneOffset: -180,
	})

	require.NoError(t, err)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestHoursCardService_ClockIn_OwnerBackfillValidation(t *testing.T) {
	tests := []struct {
		name string
		in   ClockInInput
	}{
		{name: "bad date", in: ClockInInput{Date: "01/03/2026", ClockInTime: "09:00"}},
		{name: "date without time", in: ClockInInput{Date: "2026-03-01"}},
		{name: "bad time", in: ClockInInput{Date: "2026-03-01", ClockInTime: "9am"}},
		{name: "out equals in", in: ClockInInput{Date: "2026-03-01", ClockInTime: "17:00", ClockOutTime: "17:00"}},
		{name: "future", in: ClockInInput{Date: "2026-03-05", ClockInTime: "09:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupHoursCardService(t)
			f.expectStaffScope(nil, nil, 100, false, models.StaffStatusActive, true)

			tt.in.StaffID = &f.staffID
			_, err := f.svc.ClockIn(context.Background(), f.ownerID, tt.in)

			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestHoursCardService_ClockIn_OffsetOutOfRange(t *testing.T) {
	// UTC+14 is the easternmost zone (-840) and UTC-12 the westernmost (720).
	for _, offset := range []int{900, -841, 721, 840} {
		t.Run(fmt.Sprint(offset), func(t *testing.T) {
			f := setupHoursCardService(t)
			_, err := f.svc.ClockIn(context.Background(), f.workerID, ClockInInput{TimezoneOffset: offset})
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestHoursCardService_ClockIn_OwnerBackfillOvernight(t *testing.T) {
	f := setupHoursCardService(t)
	f.expectStaffScope(nil, nil, 100, false, models.StaffStatusActive, true)

	wantIn := time.Date(2026, 3, 1, 22, 0, 0, 0, time.UTC)
	wantOut := time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)

	f.mock.ExpectQuery(`INSERT INTO hours_cards`).
		WithArgs(
			f.staffID, (*uuid.UUID)(nil), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), timeArg(wantIn), timePtrArg(wantOut), 0,
			(*float64)(nil), (*float64)(nil), (*float64)(nil),
			"", models.HoursCardPending, &f.ownerID, &f.ownerID,
		).
		WillReturnRows(cardRows(f.card(models.HoursCardPending)))

	_, err := f.svc.ClockIn(context.Background(), f.ownerID, ClockInInput{
		StaffID:      &f.staffID,
		Date:         "2026-03-01",
		ClockInTime:  "22:00",
		ClockOutTime: "06:00",
	})

	require.NoError(t, err)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestHoursCardService_ClockIn_ShiftChecks(t *testing.T) {
	shiftID := uuid.New()

	t.Run("unknown shift", func(t *testing.T) {
		f := setupHoursCardService(t)
		f.expectStaffScope(nil, nil, 100, false, models.StaffStatusActive, true)
		f.mock.ExpectQuery(`SELECT business_id, staff_id FROM shifts`).
			WithArgs(shiftID).
			WillReturnError(pgx.ErrNoRows)

		_, err := f.svc.ClockIn(context.Background(), f.workerID, ClockInInput{StaffID: &f.staffID, ShiftID: &shiftID})

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "shift_id", vErr.Field)
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("shift of another business", func(t *testing.T) {
		f := setupHoursCardService(t)
		f.expectStaffScope(nil, nil, 100, false, models.StaffStatusActive, true)
		f.mock.ExpectQuery(`SELECT business_id, staff_id FROM shifts`).
			WithArgs(shiftID).
			WillReturnRows(pgxmock.NewRows([]string{"business_id", "staff_id"}).AddRow(uuid.New(), f.staffID))

		_, err := f.svc.ClockIn(context.Background(), f.workerID, ClockInInput{StaffID: &f.staffID, ShiftID: &shiftID})

		assert.ErrorIs(t, err, ErrValidation)
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("own shift", func(t *testing.T) {
		f := setupHoursCardService(t)
		f.expectStaffScope(nil, nil, 100, false, models.StaffStatusActive, true)
		f.mock.ExpectQuery(`SELECT business_id, staff_id FROM shifts`).
			WithArgs(shiftID).
			WillReturnRows(pgxmock.NewRows([]string{"business_id", "staff_id"}).AddRow(f.business, f.staffID))
		f.mock.ExpectQuery(`INSERT INTO hours_cards`).
			WithArgs(
				f.staffID, &shiftID, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), timeArg(fixedNow), (*time.Time)(nil), 0,
				(*float64)(nil), (*float64)(nil), (*float64)(nil),
				"", models.HoursCardPending, &f.workerID, (*uuid.UUID)(nil),
			).
			WillReturnRows(cardRows(f.card(models.HoursCardPending)))

		_, err := f.svc.ClockIn(context.Background(), f.workerID, ClockInInput{StaffID: &f.staffID, ShiftID: &shiftID})

		require.NoError(t, err)
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})
}

func TestHoursCardService_ClockOut(t *testing.T) {
	f := setupHoursCardService(t)
	open := f.card(models.HoursCardPending)
	closed := open
	closed.ClockOutAt = ptr(fixedNow)

	f.expectScope(open)
	f.mock.ExpectQuery(`UPDATE hours_cards AS hc\s+SET clock_out_at = \$1`).
		WithArgs(timeArg(fixedNow), f.workerID, (*string)(nil), open.ID, models.HoursCardPending).
		WillReturnRows(cardRows(closed))

	card, err := f.svc.ClockOut(context.Background(), f.workerID, open.ID, nil)

	require.NoError(t, err)
	assert.True(t, card.IsClockedOut())
	assert.InDelta(t, 5.5, card.TotalHoursDecimal(), 1e-9)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestHoursCardService_ClockOut_UsesCardOffset(t *testing.T) {
	f := setupHoursCardService(t)
	open := f.card(models.HoursCardPending)
	open.UTCOffsetMinutes = -180
	// 14:30 UTC is 17:30 at UTC+3 on the card's date.
	want := time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)

	f.expectScope(open)
	f.mock.ExpectQuery(`UPDATE hours_cards AS hc`).
		WithArgs(timeArg(want), f.ownerID, ptr("left early"), open.ID, models.HoursCardPending).
		WillReturnRows(cardRows(open))

	_, err := f.svc.ClockOut(context.Background(), f.ownerID, open.ID, ptr(" left early "))

	require.NoError(t, err)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestHoursCardService_ClockOut_Twice(t *testing.T) {
	f := setupHoursCardService(t)
	closed := f.card(models.HoursCardPending)
	closed.ClockOutAt = ptr(fixedNow.Add(-time.Hour))

	f.expectScope(closed)

	_, err := f.svc.ClockOut(context.Background(), f.workerID, closed.ID, nil)

	assert.ErrorIs(t, err, ErrAlreadyClockedOut)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestHoursCardService_ClockOut_LostRace(t *testing.T) {
	f := setupHoursCardService(t)
	open := f.card(models.HoursCardPending)
	closed := open
	closed.ClockOutAt = ptr(fixedNow.Add(-time.Minute))

	f.expectScope(open)
	f.mock.ExpectQuery(`UPDATE hours_cards AS hc`).
		WithArgs(anyArgs(5)...).
		WillReturnError(pgx.ErrNoRows)
	f.expectReread(closed)

	_, err := f.svc.ClockOut(context.Background(), f.workerID, open.ID, nil)

	assert.ErrorIs(t, err, ErrAlreadyClockedOut)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestHoursCardService_ClockOut_Stranger(t *testing.T) {
	f := setupHoursCardService(t)
	open := f.card(models.HoursCardPending)
	f.expectScope(open)

	_, err := f.svc.ClockOut(context.Background(), uuid.New(), open.ID, nil)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestHoursCardService_ClockOut_NotFound(t *testing.T) {
	f := setupHoursCardService(t)
	id := uuid.New()

	f.mock.ExpectQuery(`FROM hours_cards hc`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := f.svc.ClockOut(context.Background(), f.workerID, id, nil)
	assert.ErrorIs(t, err, ErrHoursCardNotFound)
}

func TestHoursCardService_Sign(t *testing.T) {
	f := setupHoursCardService(t)
	closed := f.card(models.HoursCardPending)
	closed.ClockOutAt = ptr(fixedNow)
	signed := closed
	signed.Status = models.HoursCardSigned
	signed.WorkerSignature = ptr("Amina")
	signed.WorkerSignedAt = ptr(fixedNow)

	f.expectScope(closed)
	f.mock.ExpectQuery(`UPDATE hours_cards AS hc\s+SET worker_signature = \$1`).
		WithArgs("Amina", models.HoursCardSigned, closed.ID, models.HoursCardPending).
		WillReturnRows(cardRows(signed))

	card, err := f.svc.Sign(context.Background(), f.workerID, closed.ID, "Amina")

	require.NoError(t, err)
	assert.Equal(t, models.HoursCardSigned, card.Status)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestHoursCardService_Sign_Preconditions(t *testing.T) {
	f := setupHoursCardService(t)

	open := f.card(models.HoursCardPending)
	f.expectScope(open)
	_, err := f.svc.Sign(context.Background(), f.workerID, open.ID, "Amina")
	assert.ErrorIs(t, err, ErrNotClockedOut)

	signed := f.card(models.HoursCardSigned)
	signed.ClockOutAt = ptr(fixedNow)
	signed.WorkerSignedAt = ptr(fixedNow)
	f.expectScope(signed)
	_, err = f.svc.Sign(context.Background(), f.workerID, signed.ID, "Amina")
	assert.ErrorIs(t, err, ErrAlreadySigned)

	closed := f.card(models.HoursCardPending)
	closed.ClockOutAt = ptr(fixedNow)
	f.expectScope(closed)
	_, err = f.svc.Sign(context.Background(), f.ownerID, closed.ID, "Owner")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.Sign(context.Background(), f.workerID, closed.ID, "   ")
	assert.ErrorIs(t, err, ErrValidation)

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestHoursCardService_Review_Approve(t *testing.T) {
	f := setupHoursCardService(t)
	signed := f.card(models.HoursCardSigned)
	signed.ClockOutAt = ptr(fixedNow)
	signed.WorkerSignedAt = ptr(fixedNow)
	approved := signed
	approved.Status = models.HoursCardApproved
	approved.ApprovedBy = &f.ownerID

	f.expectScope(signed)
	f.mock.ExpectQuery(`UPDATE hours_cards AS hc\s+SET status = \$1, approved_by = \$2`).
		WithArgs(models.HoursCardApproved, f.ownerID, (*string)(nil), signed.ID, models.HoursCardSigned).
		WillReturnRows(cardRows(approved))

	card, err := f.svc.Review(context.Background(), f.ownerID, signed.ID, models.HoursCardApproved, "")

	require.NoError(t, err)
	assert.Equal(t, models.HoursCardApproved, card.Status)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestHoursCardService_Review_RejectStoresReason(t *testing.T) {
	f := setupHoursCardService(t)
	signed := f.card(models.HoursCardSigned)
	signed.ClockOutAt = ptr(fixedNow)
	signed.WorkerSignedAt = ptr(fixedNow)

	f.expectScope(signed)
	f.mock.ExpectQuery(`UPDATE hours_cards AS hc`).
		WithArgs(models.HoursCardRejected, f.ownerID, ptr("wrong hours"), signed.ID, models.HoursCardSigned).
		WillReturnRows(cardRows(signed))

	_, err := f.svc.Review(context.Background(), f.ownerID, signed.ID, models.HoursCardRejected, "wrong hours")

	require.NoError(t, err)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestHoursCardService_Review_WithoutSignature(t *testing.T) {
	f := setupHoursCardService(t)
	closed := f.card(models.HoursCardPending)
	closed.ClockOutAt = ptr(fixedNow)

	f.expectScope(closed)

	_, err := f.svc.Review(context.Background(), f.ownerID, closed.ID, models.HoursCardApproved, "")

	assert.ErrorIs(t, err, ErrNotSigned)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestHoursCardService_Review_TerminalAfterApproval(t *testing.T) {
	f := setupHoursCardService(t)
	approved := f.card(models.HoursCardApproved)
	approved.ClockOutAt = ptr(fixedNow)
	approved.WorkerSignedAt = ptr(fixedNow)

	ctx := context.Background()

	f.expectScope(approved)
	_, err := f.svc.Review(ctx, f.ownerID, approved.ID, models.HoursCardRejected, "changed my mind")
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	f.expectScope(approved)
	_, err = f.svc.Sign(ctx, f.workerID, approved.ID, "Amina")
	assert.ErrorIs(t, err, ErrAlreadySigned)

	f.expectScope(approved)
	_, err = f.svc.ClockOut(ctx, f.workerID, approved.ID, nil)
	assert.ErrorIs(t, err, ErrAlreadyClockedOut)

	f.expectScope(approved)
	_, err = f.svc.Update(ctx, f.ownerID, approved.ID, UpdateHoursCardInput{Notes: ptr("edit")})
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestHoursCardService_Review_ConcurrentLoser(t *testing.T) {
	f := setupHoursCardService(t)
	signed := f.card(models.HoursCardSigned)
	signed.ClockOutAt = ptr(fixedNow)
	signed.WorkerSignedAt = ptr(fixedNow)
	approved := signed
	approved.Status = models.HoursCardApproved

	f.expectScope(signed)
	f.mock.ExpectQuery(`UPDATE hours_cards AS hc`).
		WithArgs(anyArgs(5)...).
		WillReturnError(pgx.ErrNoRows)
	f.expectReread(approved)

	_, err := f.svc.Review(context.Background(), f.ownerID, signed.ID, models.HoursCardRejected, "")

	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestHoursCardService_Review_WorkerCannotApprove(t *testing.T) {
	f := setupHoursCardService(t)
	signed := f.card(models.HoursCardSigned)
	f.expectScope(signed)

	_, err := f.svc.Review(context.Background(), f.workerID, signed.ID, models.HoursCardApproved, "")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestHoursCardService_Review_InvalidStatus(t *testing.T) {
	f := setupHoursCardService(t)
	_, err := f.svc.Review(context.Background(), f.ownerID, uuid.New(), models.HoursCardRevised, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestHoursCardService_AdminOverride(t *testing.T) {
	f := setupHoursCardService(t)
	adminID := uuid.New()
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	f.mock.ExpectQuery(`SELECT global_role FROM users`).
		WithArgs(adminID).
		WillReturnRows(pgxmock.NewRows([]string{"global_role"}).AddRow(models.GlobalRoleAdmin))
	f.mock.ExpectExec(`UPDATE hours_cards\s+SET status = \$1`).
		WithArgs(models.HoursCardRevised, adminID, (*string)(nil), ids).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	n, err := f.svc.AdminOverride(context.Background(), adminID, ids, models.HoursCardRevised, "")

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestHoursCardService_AdminOverride_NotAdmin(t *testing.T) {
	f := setupHoursCardService(t)

	f.mock.ExpectQuery(`SELECT global_role FROM users`).
		WithArgs(f.ownerID).
		WillReturnRows(pgxmock.NewRows([]string{"global_role"}).AddRow(models.GlobalRoleUser))

	_, err := f.svc.AdminOverride(context.Background(), f.ownerID, []uuid.UUID{uuid.New()}, models.HoursCardApproved, "")

	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestHoursCardService_AdminOverride_Validation(t *testing.T) {
	f := setupHoursCardService(t)

	_, err := f.svc.AdminOverride(context.Background(), uuid.New(), nil, models.HoursCardApproved, "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.AdminOverride(context.Background(), uuid.New(), []uuid.UUID{uuid.New()}, models.HoursCardSigned, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestHoursCardService_Update_SignedCardNeedsResigning(t *testing.T) {
	f := setupHoursCardService(t)
	signed := f.card(models.HoursCardSigned)
	signed.ClockOutAt = ptr(time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC))
	signed.WorkerSignedAt = ptr(fixedNow)

	f.expectScope(signed)
	f.mock.ExpectQuery(`UPDATE hours_cards AS hc\s+SET clock_in_at = \$1`).
		WithArgs(
			timeArg(signed.ClockInAt), timePtrArg(*signed.ClockOutAt),
			timePtrArg(time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)), timePtrArg(time.Date(2026, 3, 2, 12, 30, 0, 0, time.UTC)),
			"", models.HoursCardPending, true, signed.ID, models.HoursCardSigned,
		).
		WillReturnRows(cardRows(f.card(models.HoursCardPending)))

	card, err := f.svc.Update(context.Background(), f.ownerID, signed.ID, UpdateHoursCardInput{
		BreakStart: ptr("12:00"),
		BreakEnd:   ptr("12:30"),
	})

	require.NoError(t, err)
	assert.Equal(t, models.HoursCardPending, card.Status)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestHoursCardService_ClockOut_AfterMidnight(t *testing.T) {
	f := setupHoursCardService(t)
	f.svc.now = func() time.Time { return time.Date(2026, 3, 2, 1, 30, 0, 0, time.UTC) }

	open := f.card(models.HoursCardPending)
	open.Date = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	open.ClockInAt = time.Date(2026, 3, 1, 22, 0, 0, 0, time.UTC)
	want := time.Date(2026, 3, 2, 1, 30, 0, 0, time.UTC)
	closed := open
	closed.ClockOutAt = &want

	f.expectScope(open)
	f.mock.ExpectQuery(`UPDATE hours_cards AS hc\s+SET clock_out_at = \$1`).
		WithArgs(timeArg(want), f.workerID, (*string)(nil), open.ID, models.HoursCardPending).
		WillReturnRows(cardRows(closed))

	card, err := f.svc.ClockOut(context.Background(), f.workerID, open.ID, nil)

	require.NoError(t, err)
	assert.InDelta(t, 3.5, card.TotalHoursDecimal(), 1e-9)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestAfterClockIn(t *testing.T) {
	clockIn := time.Date(2026, 3, 1, 22, 0, 30, 500, time.UTC)

	tests := []struct {
		name string
		at   time.Time
		want time.Time
	}{
		{"later same day", time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC), time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC)},
		{"same minute stays", time.Date(2026, 3, 1, 22, 0, 0, 0, time.UTC), time.Date(2026, 3, 1, 22, 0, 0, 0, time.UTC)},
		{"after midnight", time.Date(2026, 3, 1, 1, 30, 0, 0, time.UTC), time.Date(2026, 3, 2, 1, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(afterClockIn(tt.at, clockIn)))
		})
	}
}

// overnightCard was clocked in at 22:00 and has a clock-out stored on the
// card's own date, as older clients recorded it.
func (f *hoursCardFixture) overnightCard() models.HoursCard {
	c := f.card(models.HoursCardPending)
	c.Date = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	c.ClockInAt = time.Date(2026, 3, 1, 22, 0, 0, 0, time.UTC)
	c.ClockOutAt = ptr(time.Date(2026, 3, 1, 1, 30, 0, 0, time.UTC))
	return c
}

func TestHoursCardService_Update_NotesOnlySkipsTimeChecks(t *testing.T) {
	f := setupHoursCardService(t)
	c := f.overnightCard()

	f.expectScope(c)
	f.mock.ExpectQuery(`UPDATE hours_cards AS hc\s+SET clock_in_at = \$1`).
		WithArgs(
			timeArg(c.ClockInAt), timePtrArg(*c.ClockOutAt), (*time.Time)(nil), (*time.Time)(nil),
			"night shift", models.HoursCardPending, false, c.ID, models.HoursCardPending,
		).
		WillReturnRows(cardRows(c))

	_, err := f.svc.Update(context.Background(), f.ownerID, c.ID, UpdateHoursCardInput{Notes: ptr("night shift")})

	require.NoError(t, err)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestHoursCardService_Update_ClockOutRollsToNextDay(t *testing.T) {
	f := setupHoursCardService(t)
	c := f.overnightCard()
	want := time.Date(2026, 3, 2, 1, 30, 0, 0, time.UTC)
	fixed := c
	fixed.ClockOutAt = &want

	f.expectScope(c)
	f.mock.ExpectQuery(`UPDATE hours_cards AS hc\s+SET clock_in_at = \$1`).
		WithArgs(
			timeArg(c.ClockInAt), timePtrArg(want), (*time.Time)(nil), (*time.Time)(nil),
			"", models.HoursCardPending, false, c.ID, models.HoursCardPending,
		).
		WillReturnRows(cardRows(fixed))

	card, err := f.svc.Update(context.Background(), f.ownerID, c.ID, UpdateHoursCardInput{ClockOutTime: ptr("01:30")})

	require.NoError(t, err)
	assert.InDelta(t, 3.5, card.TotalHoursDecimal(), 1e-9)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestHoursCardService_RevisedCardReturnsToNormalFlow(t *testing.T) {
	f := setupHoursCardService(t)
	ctx := context.Background()

	revised := f.card(models.HoursCardRevised)
	revised.ClockOutAt = ptr(time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC))
	revised.WorkerSignature = ptr("Amina")
	revised.WorkerSignedAt = ptr(fixedNow)
	revised.ApprovedBy = ptr(uuid.New())
	revised.ApprovedAt = ptr(fixedNow)

	// While revised, the normal flow cannot move it.
	f.expectScope(revised)
	_, err := f.svc.Sign(ctx, f.workerID, revised.ID, "Amina")
	assert.ErrorIs(t, err, ErrAlreadySigned)

	f.expectScope(revised)
	_, err = f.svc.Review(ctx, f.ownerID, revised.ID, models.HoursCardApproved, "")
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	pending := revised
	pending.Status = models.HoursCardPending
	pending.WorkerSignature = nil
	pending.WorkerSignedAt = nil
	pending.ApprovedBy = nil
	pending.ApprovedAt = nil

	f.expectScope(revised)
	f.mock.ExpectQuery(`UPDATE hours_cards AS hc\s+SET clock_in_at = \$1`).
		WithArgs(
			timeArg(revised.ClockInAt), timePtrArg(time.Date(2026, 3, 2, 16, 0, 0, 0, time.UTC)), (*time.Time)(nil), (*time.Time)(nil),
			"", models.HoursCardPending, true, revised.ID, models.HoursCardRevised,
		).
		WillReturnRows(cardRows(pending))

	card, err := f.svc.Update(ctx, f.ownerID, revised.ID, UpdateHoursCardInput{ClockOutTime: ptr("16:00")})
	require.NoError(t, err)
	assert.Equal(t, models.HoursCardPending, card.Status)
	assert.False(t, card.IsSigned())

	signed := pending
	signed.Status = models.HoursCardSigned
	signed.WorkerSignature = ptr("Amina")
	signed.WorkerSignedAt = ptr(fixedNow)

	f.expectScope(pending)
	f.mock.ExpectQuery(`UPDATE hours_cards AS hc\s+SET worker_signature = \$1`).
		WithArgs("Amina", models.HoursCardSigned, pending.ID, models.HoursCardPending).
		WillReturnRows(cardRows(signed))

	card, err = f.svc.Sign(ctx, f.workerID, pending.ID, "Amina")
	require.NoError(t, err)
	assert.Equal(t, models.HoursCardSigned, card.Status)

	approved := signed
	approved.Status = models.HoursCardApproved
	approved.ApprovedBy = &f.ownerID

	f.expectScope(signed)
	f.mock.ExpectQuery(`UPDATE hours_cards AS hc\s+SET status = \$1`).
		WithArgs(models.HoursCardApproved, f.ownerID, (*string)(nil), signed.ID, models.HoursCardSigned).
		WillReturnRows(cardRows(approved))

	card, err = f.svc.Review(ctx, f.ownerID, signed.ID, models.HoursCardApproved, "")
	require.NoError(t, err)
	assert.Equal(t, models.HoursCardApproved, card.Status)

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestHoursCardService_Update_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   UpdateHoursCardInput
	}{
		{name: "out equals in", in: UpdateHoursCardInput{ClockOutTime: ptr("09:00")}},
		{name: "half break", in: UpdateHoursCardInput{BreakStart: ptr("12:00")}},
		{name: "inverted break", in: UpdateHoursCardInput{BreakStart: ptr("13:00"), BreakEnd: ptr("12:00")}},
		{name: "bad time", in: UpdateHoursCardInput{ClockInTime: ptr("noon")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupHoursCardService(t)
			c := f.card(models.HoursCardPending)
			f.expectScope(c)

			_, err := f.svc.Update(context.Background(), f.ownerID, c.ID, tt.in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestHoursCardService_Update_OnlyOwner(t *testing.T) {
	f := setupHoursCardService(t)
	c := f.card(models.HoursCardPending)
	f.expectScope(c)

	_, err := f.svc.Update(context.Background(), f.workerID, c.ID, UpdateHoursCardInput{Notes: ptr("x")})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestHoursCardService_Get_Visibility(t *testing.T) {
	f := setupHoursCardService(t)
	c := f.card(models.HoursCardPending)
	stranger, admin := uuid.New(), uuid.New()
	ctx := context.Background()

	f.expectScope(c)
	got, err := f.svc.Get(ctx, f.workerID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	f.expectScope(c)
	f.mock.ExpectQuery(`SELECT global_role FROM users`).
		WithArgs(stranger).
		WillReturnRows(pgxmock.NewRows([]string{"global_role"}).AddRow(models.GlobalRoleUser))
	_, err = f.svc.Get(ctx, stranger, c.ID)
	assert.ErrorIs(t, err, ErrHoursCardNotFound)

	f.expectScope(c)
	f.mock.ExpectQuery(`SELECT global_role FROM users`).
		WithArgs(admin).
		WillReturnRows(pgxmock.NewRows([]string{"global_role"}).AddRow(models.GlobalRoleAdmin))
	_, err = f.svc.Get(ctx, admin, c.ID)
	require.NoError(t, err)

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestHoursCardService_ListMine(t *testing.T) {
	f := setupHoursCardService(t)
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	f.mock.ExpectQuery(`SELECT .+ FROM hours_cards hc\s+JOIN business_staff bs ON bs.id = hc.staff_id\s+WHERE bs.user_id = \$1`).
		WithArgs(f.workerID, &from, (*time.Time)(nil)).
		WillReturnRows(cardRows(f.card(models.HoursCardPending)))

	cards, err := f.svc.ListMine(context.Background(), f.workerID, &from, nil)

	require.NoError(t, err)
	assert.Len(t, cards, 1)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestHoursCardService_ListForBusiness(t *testing.T) {
	f := setupHoursCardService(t)

	f.mock.ExpectQuery(`SELECT owner_id FROM businesses`).
		WithArgs(f.business).
		WillReturnRows(pgxmock.NewRows([]string{"owner_id"}).AddRow(f.ownerID))
	f.mock.ExpectQuery(`WHERE bs.business_id = \$1`).
		WithArgs(f.business, models.HoursCardSigned, &f.staffID, (*time.Time)(nil), (*time.Time)(nil)).
		WillReturnRows(cardRows(f.card(models.HoursCardSigned)))

	cards, err := f.svc.ListForBusiness(context.Background(), f.ownerID, HoursCardFilter{
		BusinessID: f.business,
		Status:     models.HoursCardSigned,
		StaffID:    &f.staffID,
	})

	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, models.HoursCardSigned, cards[0].Status)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestHoursCardService_ListForBusiness_NotOwner(t *testing.T) {
	f := setupHoursCardService(t)

	f.mock.ExpectQuery(`SELECT owner_id FROM businesses`).
		WithArgs(f.business).
		WillReturnRows(pgxmock.NewRows([]string{"owner_id"}).AddRow(f.ownerID))

	_, err := f.svc.ListForBusiness(context.Background(), f.workerID, HoursCardFilter{BusinessID: f.business})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestHoursCardService_ListForBusiness_UnknownStatus(t *testing.T) {
	f := setupHoursCardService(t)
	_, err := f.svc.ListForBusiness(context.Background(), f.ownerID, HoursCardFilter{Status: "CLOCKED_OUT"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestHoursCardService_InsertFailure(t *testing.T) {
	f := setupHoursCardService(t)
	f.expectStaffScope(nil, nil, 100, false, models.StaffStatusActive, true)
	f.mock.ExpectQuery(`INSERT INTO hours_cards`).
		WithArgs(anyArgs(13)...).
		WillReturnError(errors.New("connection reset"))

	_, err := f.svc.ClockIn(context.Background(), f.workerID, ClockInInput{StaffID: &f.staffID})

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrValidation)
	var dup *DuplicateHoursCardError
	assert.False(t, errors.As(err, &dup))
}
