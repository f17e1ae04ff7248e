package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/shatayaglobal/Manpower/internal/database"
	"github.com/shatayaglobal/Manpower/internal/geo"
	"github.com/shatayaglobal/Manpower/internal/models"
)

const hoursCardColumns = `hc.id, hc.staff_id, hc.shift_id, hc.date, hc.clock_in_at, hc.clock_out_at,
	hc.utc_offset_minutes, hc.break_start_at, hc.break_end_at,
	hc.clock_in_latitude, hc.clock_in_longitude, hc.clock_in_distance_meters,
	hc.notes, hc.worker_signature, hc.worker_signed_at, hc.status,
	hc.approved_by, hc.approved_at, hc.rejection_reason,
	hc.clocked_in_by, hc.clocked_out_by, hc.created_at, hc.updated_at`

// Browser offsets are UTC minus local, so UTC+14 is -840 and UTC-12 is 720.
const (
	minOffsetMinutes = -14 * 60
	maxOffsetMinutes = 12 * 60
)

type HoursCardService struct {
	db  *database.DB
	now func() time.Time
}

func NewHoursCardService(db *database.DB) *HoursCardService {
	return &HoursCardService{db: db, now: time.Now}
}

type ClockInInput struct {
	StaffID   *uuid.UUID
	ShiftID   *uuid.UUID
	Notes     string
	Latitude  *float64
	Longitude *float64
	// Minutes, UTC minus local, as reported by browsers.
	TimezoneOffset int

	// Owner backfill. Date is YYYY-MM-DD, times are HH:MM in the offset.
	Date         string
	ClockInTime  string
	ClockOutTime string
}

type UpdateHoursCardInput struct {
	Notes        *string
	ClockInTime  *string
	ClockOutTime *string
	BreakStart   *string
	BreakEnd     *string
}

type HoursCardFilter struct {
	BusinessID uuid.UUID
	Status     string
	StaffID    *uuid.UUID
	From       *time.Time
	To         *time.Time
}

// cardScope is a card together with who may act on it.
type cardScope struct {
	card        *models.HoursCard
	staffUserID *uuid.UUID
	ownerID     uuid.UUID
}

func (s cardScope) isWorker(userID uuid.UUID) bool {
	return s.staffUserID != nil && *s.staffUserID == userID
}

func (s cardScope) isOwner(userID uuid.UUID) bool {
	return s.ownerID == userID
}

// staffScope is a staff record plus its business clock-in settings.
type staffScope struct {
	staff    *models.StaffMember
	business *models.Business
}

func scanHoursCard(row pgx.Row, extra ...any) (*models.HoursCard, error) {
	var h models.HoursCard
	dest := []any{
		&h.ID, &h.StaffID, &h.ShiftID, &h.Date, &h.ClockInAt, &h.ClockOutAt,
		&h.UTCOffsetMinutes, &h.BreakStartAt, &h.BreakEndAt,
		&h.ClockInLatitude, &h.ClockInLongitude, &h.ClockInDistanceMeters,
		&h.Notes, &h.WorkerSignature, &h.WorkerSignedAt, &h.Status,
		&h.ApprovedBy, &h.ApprovedAt, &h.RejectionReason,
		&h.ClockedInBy, &h.ClockedOutBy, &h.CreatedAt, &h.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrHoursCardNotFound
		}
		return nil, err
	}
	return &h, nil
}

func collectHoursCards(rows pgx.Rows) ([]models.HoursCard, error) {
	defer rows.Close()
	cards := []models.HoursCard{}
	for rows.Next() {
		card, err := scanHoursCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, *card)
	}
	return cards, rows.Err()
}

// ClockIn opens an hours card. The worker linked to the staff record clocks
// in for today and is subject to the business geofence. The business owner
// may clock in on the worker's behalf, optionally backfilling a past date
// and a clock-out time, without the geofence.
func (s *HoursCardService) ClockIn(ctx context.Context, actorID uuid.UUID, in ClockInInput) (*models.HoursCard, error) {
	if in.TimezoneOffset < minOffsetMinutes || in.TimezoneOffset > maxOffsetMinutes {
		return nil, invalid("timezone_offset", "out of range")
	}

	scope, err := s.resolveStaff(ctx, actorID, in.StaffID)
	if err != nil {
		return nil, err
	}

	selfClockIn := scope.staff.IsLinkedTo(actorID)
	if !selfClockIn && scope.business.OwnerID != actorID {
		return nil, ErrForbidden
	}
	if !scope.staff.CanClockIn() {
		return nil, invalid("staff_id", "staff member is not active or has not accepted the invitation")
	}
	if in.ShiftID != nil {
		if err := s.checkShift(ctx, *in.ShiftID, scope.staff); err != nil {
			return nil, err
		}
	}

	loc := models.OffsetLocation(in.TimezoneOffset)
	now := s.now().In(loc)

	card := &models.HoursCard{
		StaffID:          scope.staff.ID,
		ShiftID:          in.ShiftID,
		UTCOffsetMinutes: in.TimezoneOffset,
		Notes:            strings.TrimSpace(in.Notes),
		Status:           models.HoursCardPending,
		ClockedInBy:      &actorID,
	}

	if selfClockIn {
		card.Date = dateOf(now)
		card.ClockInAt = now
		if err := applyGeofence(card, scope.business, in.Latitude, in.Longitude); err != nil {
			return nil, err
		}
	} else {
		if err := applyBackfill(card, in, now, loc, actorID); err != nil {
			return nil, err
		}
	}

	inserted, err := scanHoursCard(s.db.Pool.QueryRow(ctx, `
		INSERT INTO hours_cards AS hc (
			staff_id, shift_id, date, clock_in_at, clock_out_at, utc_offset_minutes,
			clock_in_latitude, clock_in_longitude, clock_in_distance_meters,
			notes, status, clocked_in_by, clocked_out_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+hoursCardColumns,
		card.StaffID, card.ShiftID, card.Date, card.ClockInAt, card.ClockOutAt, card.UTCOffsetMinutes,
		card.ClockInLatitude, card.ClockInLongitude, card.ClockInDistanceMeters,
		card.Notes, card.Status, card.ClockedInBy, card.ClockedOutBy,
	))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, s.duplicateError(ctx, card.StaffID, card.Date)
		}
		return nil, fmt.Errorf("failed to create hours card: %w", err)
	}

	return inserted, nil
}

// checkShift verifies the shift exists and was scheduled for this staff
// member in their business.
func (s *HoursCardService) checkShift(ctx context.Context, shiftID uuid.UUID, staff *models.StaffMember) error {
	var businessID, staffID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `
		SELECT business_id, staff_id FROM shifts WHERE id = $1
	`, shiftID).Scan(&businessID, &staffID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return invalid("shift_id", "shift not found")
		}
		return fmt.Errorf("failed to load shift: %w", err)
	}
	if businessID != staff.BusinessID || staffID != staff.ID {
		return invalid("shift_id", "shift not found")
	}
	return nil
}

func applyGeofence(card *models.HoursCard, business *models.Business, lat, lon *float64) error {
	hasLocation := lat != nil && lon != nil
	if hasLocation && !geo.ValidCoordinate(*lat, *lon) {
		return invalid("latitude", "coordinate out of range")
	}

	if business.RequireLocationForClockIn {
		if !hasLocation {
			return ErrLocationRequired
		}
		if !business.HasWorkplace() {
			return ErrWorkplaceNotConfigured
		}
	}

	if !hasLocation {
		return nil
	}

	card.ClockInLatitude = lat
	card.ClockInLongitude = lon

	if !business.HasWorkplace() {
		return nil
	}

	distance := geo.DistanceMeters(*lat, *lon, *business.WorkplaceLatitude, *business.WorkplaceLongitude)
	if business.RequireLocationForClockIn && distance > float64(business.ClockInRadiusMeters) {
		return &GeofenceError{DistanceMeters: distance, RadiusMeters: business.ClockInRadiusMeters}
	}
	card.ClockInDistanceMeters = &distance
	return nil
}

func applyBackfill(card *models.HoursCard, in ClockInInput, now time.Time, loc *time.Location, actorID uuid.UUID) error {
	day := dateOf(now)
	if in.Date != "" {
		parsed, err := time.Parse(time.DateOnly, in.Date)
		if err != nil {
			return invalid("date", "expected YYYY-MM-DD")
		}
		day = parsed
	}
	card.Date = day

	if in.Date != "" && in.ClockInTime == "" {
		return invalid("clock_in_time", "is required when a date is given")
	}

	card.ClockInAt = now
	if in.ClockInTime != "" {
		at, err := atClock(day, in.ClockInTime, loc)
		if err != nil {
			return invalid("clock_in_time", err.Error())
		}
		card.ClockInAt = at
	}

	if in.ClockOutTime != "" {
		out, err := atClock(day, in.ClockOutTime, loc)
		if err != nil {
			return invalid("clock_out_time", err.Error())
		}
		out = afterClockIn(out, card.ClockInAt)
		if !out.After(card.ClockInAt) {
			return invalid("clock_out_time", "must be after clock_in_time")
		}
		card.ClockOutAt = &out
		card.ClockedOutBy = &actorID
	}

	if card.ClockInAt.After(now) {
		return invalid("clock_in_time", "cannot be in the future")
	}
	return nil
}

func (s *HoursCardService) duplicateError(ctx context.Context, staffID uuid.UUID, date time.Time) error {
	var existingID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id FROM hours_cards WHERE staff_id = $1 AND date = $2
	`, staffID, date).Scan(&existingID)
	if err != nil {
		return fmt.Errorf("failed to load existing hours card: %w", err)
	}
	return &DuplicateHoursCardError{ExistingID: existingID}
}

// resolveStaff loads the staff record to clock in. Without an explicit id
// the actor's single clockable staff record is used.
func (s *HoursCardService) resolveStaff(ctx context.Context, actorID uuid.UUID, staffID *uuid.UUID) (*staffScope, error) {
	if staffID == nil {
		rows, err := s.db.Pool.Query(ctx, `
			SELECT id FROM business_staff
			WHERE user_id = $1 AND confirmed = TRUE AND status = $2
		`, actorID, models.StaffStatusActive)
		if err != nil {
			return nil, err
		}
		ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
		if err != nil {
			return nil, err
		}
		switch len(ids) {
		case 0:
			return nil, invalid("staff_id", "you have no active staff membership")
		case 1:
			staffID = &ids[0]
		default:
			return nil, invalid("staff_id", "you work for several businesses; choose one")
		}
	}

	var st models.StaffMember
	var b models.Business
	err := s.db.Pool.QueryRow(ctx, `
		SELECT bs.id, bs.business_id, bs.user_id, bs.name, bs.job_title, bs.status, bs.confirmed,
			b.id, b.owner_id, b.name, b.workplace_latitude, b.workplace_longitude,
			b.clock_in_radius_meters, b.require_location_for_clock_in
		FROM business_staff bs
		JOIN businesses b ON b.id = bs.business_id
		WHERE bs.id = $1
	`, *staffID).Scan(
		&st.ID, &st.BusinessID, &st.UserID, &st.Name, &st.JobTitle, &st.Status, &st.Confirmed,
		&b.ID, &b.OwnerID, &b.Name, &b.WorkplaceLatitude, &b.WorkplaceLongitude,
		&b.ClockInRadiusMeters, &b.RequireLocationForClockIn,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	return &staffScope{staff: &st, business: &b}, nil
}

func (s *HoursCardService) loadScope(ctx context.Context, cardID uuid.UUID) (*cardScope, error) {
	scope := &cardScope{}
	card, err := scanHoursCard(s.db.Pool.QueryRow(ctx, `
		SELECT `+hoursCardColumns+`, bs.user_id, b.owner_id
		FROM hours_cards hc
		JOIN business_staff bs ON bs.id = hc.staff_id
		JOIN businesses b ON b.id = bs.business_id
		WHERE hc.id = $1
	`, cardID), &scope.staffUserID, &scope.ownerID)
	if err != nil {
		return nil, err
	}
	scope.card = card
	return scope, nil
}

// conditionalUpdate runs an UPDATE guarded by its precondition. When the
// guard matches nothing the card is re-read so the caller gets the precise
// reason rather than a bare conflict.
func (s *HoursCardService) conditionalUpdate(ctx context.Context, cardID uuid.UUID, check func(*models.HoursCard) error, sql string, args ...any) (*models.HoursCard, error) {
	card, err := scanHoursCard(s.db.Pool.QueryRow(ctx, sql, args...))
	if err == nil {
		return card, nil
	}
	if !errors.Is(err, ErrHoursCardNotFound) {
		return nil, fmt.Errorf("failed to update hours card: %w", err)
	}

	current, err := scanHoursCard(s.db.Pool.QueryRow(ctx, `
		SELECT `+hoursCardColumns+` FROM hours_cards hc WHERE hc.id = $1
	`, cardID))
	if err != nil {
		return nil, err
	}
	if err := check(current); err != nil {
		return nil, err
	}
	return nil, ErrInvalidStatusTransition
}

func canClockOut(card *models.HoursCard) error {
	if card.IsClockedOut() {
		return ErrAlreadyClockedOut
	}
	if card.Status != models.HoursCardPending {
		return ErrInvalidStatusTransition
	}
	return nil
}

func canSign(card *models.HoursCard) error {
	if card.IsSigned() {
		return ErrAlreadySigned
	}
	if !card.IsClockedOut() {
		return ErrNotClockedOut
	}
	if card.Status != models.HoursCardPending {
		return ErrInvalidStatusTransition
	}
	return nil
}

func canReview(card *models.HoursCard) error {
	if card.Status == models.HoursCardSigned {
		return nil
	}
	if card.Status == models.HoursCardPending {
		return ErrNotSigned
	}
	return ErrInvalidStatusTransition
}

func canEdit(card *models.HoursCard) error {
	if card.IsTerminal() {
		return ErrInvalidStatusTransition
	}
	return nil
}

// ClockOut closes an open card at the current wall-clock time in the card's
// offset, on the card's date.
func (s *HoursCardService) ClockOut(ctx context.Context, actorID, cardID uuid.UUID, notes *string) (*models.HoursCard, error) {
	scope, err := s.loadScope(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if !scope.isWorker(actorID) && !scope.isOwner(actorID) {
		return nil, ErrForbidden
	}
	if err := canClockOut(scope.card); err != nil {
		return nil, err
	}

	loc := scope.card.Location()
	now := s.now().In(loc)
	d := scope.card.Date
	clockOut := time.Date(d.Year(), d.Month(), d.Day(), now.Hour(), now.Minute(), now.Second(), 0, loc)
	clockOut = afterClockIn(clockOut, scope.card.ClockInAt)

	var trimmed *string
	if notes != nil {
		n := strings.TrimSpace(*notes)
		trimmed = &n
	}

	return s.conditionalUpdate(ctx, cardID, canClockOut, `
		UPDATE hours_cards AS hc
		SET clock_out_at = $1, clocked_out_by = $2, notes = COALESCE($3, hc.notes), updated_at = NOW()
		WHERE hc.id = $4 AND hc.clock_out_at IS NULL AND hc.status = $5
		RETURNING `+hoursCardColumns,
		clockOut, actorID, trimmed, cardID, models.HoursCardPending)
}

// Sign records the worker's signature on a clocked-out card.
func (s *HoursCardService) Sign(ctx context.Context, actorID, cardID uuid.UUID, signature string) (*models.HoursCard, error) {
	signature = strings.TrimSpace(signature)
	if signature == "" {
		return nil, invalid("signature", "is required")
	}

	scope, err := s.loadScope(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if !scope.isWorker(actorID) {
		return nil, ErrForbidden
	}
	if err := canSign(scope.card); err != nil {
		return nil, err
	}

	return s.conditionalUpdate(ctx, cardID, canSign, `
		UPDATE hours_cards AS hc
		SET worker_signature = $1, worker_signed_at = NOW(), status = $2, updated_at = NOW()
		WHERE hc.id = $3 AND hc.status = $4 AND hc.clock_out_at IS NOT NULL AND hc.worker_signed_at IS NULL
		RETURNING `+hoursCardColumns,
		signature, models.HoursCardSigned, cardID, models.HoursCardPending)
}

// Review approves or rejects a signed card. Only one concurrent review can
// succeed.
func (s *HoursCardService) Review(ctx context.Context, actorID, cardID uuid.UUID, status, reason string) (*models.HoursCard, error) {
	if status != models.HoursCardApproved && status != models.HoursCardRejected {
		return nil, invalid("status", "must be APPROVED or REJECTED")
	}

	scope, err := s.loadScope(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if !scope.isOwner(actorID) {
		return nil, ErrForbidden
	}
	if err := canReview(scope.card); err != nil {
		return nil, err
	}

	var rejection *string
	if status == models.HoursCardRejected {
		r := strings.TrimSpace(reason)
		rejection = &r
	}

	return s.conditionalUpdate(ctx, cardID, canReview, `
		UPDATE hours_cards AS hc
		SET status = $1, approved_by = $2, approved_at = NOW(), rejection_reason = $3, updated_at = NOW()
		WHERE hc.id = $4 AND hc.status = $5
		RETURNING `+hoursCardColumns,
		status, actorID, rejection, cardID, models.HoursCardSigned)
}

// AdminOverride sets the status of many cards at once, ignoring the normal
// progression. It returns the number of cards changed.
func (s *HoursCardService) AdminOverride(ctx context.Context, actorID uuid.UUID, ids []uuid.UUID, status, reason string) (int64, error) {
	switch status {
	case models.HoursCardApproved, models.HoursCardRejected, models.HoursCardRevised:
	default:
		return 0, invalid("status", "must be APPROVED, REJECTED or REVISED")
	}
	if len(ids) == 0 {
		return 0, invalid("ids", "at least one hours card is required")
	}

	var role string
	err := s.db.Pool.QueryRow(ctx, `SELECT global_role FROM users WHERE id = $1`, actorID).Scan(&role)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}
	if role != models.GlobalRoleAdmin {
		return 0, ErrForbidden
	}

	var rejection *string
	if status == models.HoursCardRejected {
		r := strings.TrimSpace(reason)
		rejection = &r
	}

	result, err := s.db.Pool.Exec(ctx, `
		UPDATE hours_cards
		SET status = $1, approved_by = $2, approved_at = NOW(),
			rejection_reason = COALESCE($3, rejection_reason), updated_at = NOW()
		WHERE id = ANY($4)
	`, status, actorID, rejection, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to override hours cards: %w", err)
	}
	return result.RowsAffected(), nil
}

// Update lets the business owner correct a card that has not been approved
// or rejected. Editing a signed or revised card clears the signature so the
// worker signs the corrected card again.
func (s *HoursCardService) Update(ctx context.Context, actorID, cardID uuid.UUID, in UpdateHoursCardInput) (*models.HoursCard, error) {
	scope, err := s.loadScope(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if !scope.isOwner(actorID) {
		return nil, ErrForbidden
	}
	card := scope.card
	if err := canEdit(card); err != nil {
		return nil, err
	}

	loc := card.Location()
	clockIn, clockOut := card.ClockInAt, card.ClockOutAt
	breakStart, breakEnd := card.BreakStartAt, card.BreakEndAt
	notes := card.Notes

	if in.Notes != nil {
		notes = strings.TrimSpace(*in.Notes)
	}
	if in.ClockInTime != nil {
		if clockIn, err = atClock(card.Date, *in.ClockInTime, loc); err != nil {
			return nil, invalid("clock_in_time", err.Error())
		}
	}
	if in.ClockOutTime != nil {
		out, err := atClock(card.Date, *in.ClockOutTime, loc)
		if err != nil {
			return nil, invalid("clock_out_time", err.Error())
		}
		out = afterClockIn(out, clockIn)
		clockOut = &out
	}
	if in.BreakStart != nil {
		bs, err := atClock(card.Date, *in.BreakStart, loc)
		if err != nil {
			return nil, invalid("break_start", err.Error())
		}
		bs = afterClockIn(bs, clockIn)
		breakStart = &bs
	}
	if in.BreakEnd != nil {
		be, err := atClock(card.Date, *in.BreakEnd, loc)
		if err != nil {
			return nil, invalid("break_end", err.Error())
		}
		be = afterClockIn(be, clockIn)
		breakEnd = &be
	}

	// Stored times are only re-validated when the edit touches them.
	timesChanged := in.ClockInTime != nil || in.ClockOutTime != nil || in.BreakStart != nil || in.BreakEnd != nil
	if timesChanged {
		if clockOut != nil && !clockOut.After(clockIn) {
			return nil, invalid("clock_out_time", "must be after clock_in_time")
		}
		if (breakStart == nil) != (breakEnd == nil) {
			return nil, invalid("break_start", "break start and end must be set together")
		}
		if breakStart != nil && !breakEnd.After(*breakStart) {
			return nil, invalid("break_end", "must be after break_start")
		}
	}

	// A signed card, or one an admin sent back for revision, returns to
	// pending and needs a fresh signature.
	status := card.Status
	if status == models.HoursCardSigned || status == models.HoursCardRevised {
		status = models.HoursCardPending
	}
	clearSignature := status != card.Status

	return s.conditionalUpdate(ctx, cardID, canEdit, `
		UPDATE hours_cards AS hc
		SET clock_in_at = $1, clock_out_at = $2, break_start_at = $3, break_end_at = $4, notes = $5,
			status = $6,
			worker_signature = CASE WHEN $7 THEN NULL ELSE hc.worker_signature END,
			worker_signed_at = CASE WHEN $7 THEN NULL ELSE hc.worker_signed_at END,
			approved_by = CASE WHEN $7 THEN NULL ELSE hc.approved_by END,
			approved_at = CASE WHEN $7 THEN NULL ELSE hc.approved_at END,
			updated_at = NOW()
		WHERE hc.id = $8 AND hc.status = $9
		RETURNING `+hoursCardColumns,
		clockIn, clockOut, breakStart, breakEnd, notes, status, clearSignature, cardID, card.Status)
}

// Get returns a card visible to its worker, the business owner or an admin.
func (s *HoursCardService) Get(ctx context.Context, actorID, cardID uuid.UUID) (*models.HoursCard, error) {
	scope, err := s.loadScope(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if scope.isWorker(actorID) || scope.isOwner(actorID) {
		return scope.card, nil
	}

	var role string
	err = s.db.Pool.QueryRow(ctx, `SELECT global_role FROM users WHERE id = $1`, actorID).Scan(&role)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if role == models.GlobalRoleAdmin {
		return scope.card, nil
	}
	return nil, ErrHoursCardNotFound
}

// ListMine returns the cards of every staff record linked to the worker.
func (s *HoursCardService) ListMine(ctx context.Context, workerID uuid.UUID, from, to *time.Time) ([]models.HoursCard, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+hoursCardColumns+`
		FROM hours_cards hc
		JOIN business_staff bs ON bs.id = hc.staff_id
		WHERE bs.user_id = $1
			AND ($2::date IS NULL OR hc.date >= $2)
			AND ($3::date IS NULL OR hc.date <= $3)
		ORDER BY hc.date DESC, hc.clock_in_at DESC
	`, workerID, from, to)
	if err != nil {
		return nil, err
	}
	return collectHoursCards(rows)
}

// ListForBusiness returns the business's cards to its owner.
func (s *HoursCardService) ListForBusiness(ctx context.Context, actorID uuid.UUID, f HoursCardFilter) ([]models.HoursCard, error) {
	if f.Status != "" && !models.IsHoursCardStatus(f.Status) {
		return nil, invalid("status", "unknown hours card status")
	}

	var ownerID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `SELECT owner_id FROM businesses WHERE id = $1`, f.BusinessID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	if ownerID != actorID {
		return nil, ErrForbidden
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+hoursCardColumns+`
		FROM hours_cards hc
		JOIN business_staff bs ON bs.id = hc.staff_id
		WHERE bs.business_id = $1
			AND ($2 = '' OR hc.status = $2)
			AND ($3::uuid IS NULL OR hc.staff_id = $3)
			AND ($4::date IS NULL OR hc.date >= $4)
			AND ($5::date IS NULL OR hc.date <= $5)
		ORDER BY hc.date DESC, hc.clock_in_at DESC
	`, f.BusinessID, f.Status, f.StaffID, f.From, f.To)
	if err != nil {
		return nil, err
	}
	return collectHoursCards(rows)
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// afterClockIn moves a wall-clock time that falls before the minute of
// clockIn to the following day, so shifts crossing midnight keep a positive
// duration.
func afterClockIn(at, clockIn time.Time) time.Time {
	if at.Before(clockIn.Truncate(time.Minute)) {
		return at.AddDate(0, 0, 1)
	}
	return at
}

// atClock places an HH:MM wall-clock time on day in loc.
func atClock(day time.Time, hhmm string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(hhmm))
	if err != nil {
		return time.Time{}, errors.New("expected HH:MM")
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}
