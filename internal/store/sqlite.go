package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/peake100/stalkbroker/internal/domain"
)

const oneWeek = 7 * 24 * time.Hour

// SQLiteRepo implements Repo using an embedded SQLite database.
type SQLiteRepo struct{ db *sql.DB }

// OpenSQLite opens (or creates) the database at the given path, applies
// PRAGMAs, runs migrations, and returns a repository. Pass ":memory:" for
// an in-memory database (used by tests).
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// SQLite is a single-writer engine; one connection avoids lock churn.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLiteRepo{db: db}, nil
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

// --- Users ---

// UpsertUser inserts a user row if one does not exist for the Discord id,
// then optionally unions a server into the membership set. The generated
// internal id only sticks on first insert; conflicts leave the existing row
// untouched.
func (r *SQLiteRepo) UpsertUser(ctx context.Context, discordID, serverDiscordID string) (*domain.User, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, discord_id) VALUES (?, ?)
		ON CONFLICT(discord_id) DO NOTHING`,
		uuid.NewString(), discordID,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	if serverDiscordID != "" {
		if err := r.addMembership(ctx, discordID, serverDiscordID); err != nil {
			return nil, err
		}
	}

	return r.getUser(ctx, discordID)
}

func (r *SQLiteRepo) addMembership(ctx context.Context, discordID, serverDiscordID string) error {
	var userID string
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM users WHERE discord_id = ?`, discordID,
	).Scan(&userID)
	if err != nil {
		return fmt.Errorf("resolve user %s: %w", discordID, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO user_servers (user_id, server_discord_id) VALUES (?, ?)
		ON CONFLICT(user_id, server_discord_id) DO NOTHING`,
		userID, serverDiscordID,
	)
	if err != nil {
		return fmt.Errorf("add membership: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) getUser(ctx context.Context, discordID string) (*domain.User, error) {
	var (
		id        string
		tzNS      sql.NullString
		notifyInt int
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, timezone, notify_on_bulletin
		FROM users WHERE discord_id = ?`,
		discordID,
	).Scan(&id, &tzNS, &notifyInt)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", discordID, err)
	}

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("decode user id %q: %w", id, err)
	}
	tz, err := decodeTimezone(tzNS)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT server_discord_id FROM user_servers
		WHERE user_id = ? ORDER BY server_discord_id`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("get memberships: %w", err)
	}
	defer rows.Close()

	var servers []string
	for rows.Next() {
		var serverID string
		if err := rows.Scan(&serverID); err != nil {
			return nil, err
		}
		servers = append(servers, serverID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &domain.User{
		ID:               parsedID,
		DiscordID:        discordID,
		Timezone:         tz,
		Servers:          servers,
		NotifyOnBulletin: notifyInt != 0,
	}, nil
}

// UpdateTimezone sets the timezone field. The update is attempted against
// the possibly-absent row first; when nothing was touched, the user is
// created explicitly and the update repeated, so timezone-setting succeeds
// whether or not the user already exists.
func (r *SQLiteRepo) UpdateTimezone(ctx context.Context, discordID, serverDiscordID string, tz *time.Location) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET timezone = ? WHERE discord_id = ?`,
		encodeTimezone(tz), discordID,
	)
	if err != nil {
		return fmt.Errorf("update timezone: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, err := r.UpsertUser(ctx, discordID, serverDiscordID); err != nil {
			return err
		}
		_, err = r.db.ExecContext(ctx,
			`UPDATE users SET timezone = ? WHERE discord_id = ?`,
			encodeTimezone(tz), discordID,
		)
		return err
	}

	if serverDiscordID != "" {
		return r.addMembership(ctx, discordID, serverDiscordID)
	}
	return nil
}

// UpdateNotifyOnBulletin flips the bulletin-subscription flag.
func (r *SQLiteRepo) UpdateNotifyOnBulletin(ctx context.Context, discordID, serverDiscordID string, notify bool) (*domain.User, error) {
	if _, err := r.UpsertUser(ctx, discordID, serverDiscordID); err != nil {
		return nil, err
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET notify_on_bulletin = ? WHERE discord_id = ?`,
		boolToInt(notify), discordID,
	)
	if err != nil {
		return nil, fmt.Errorf("update subscription: %w", err)
	}
	return r.getUser(ctx, discordID)
}

// ListSubscribers returns the Discord ids of a server's members who opted
// into bulletin pings.
func (r *SQLiteRepo) ListSubscribers(ctx context.Context, serverDiscordID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.discord_id
		FROM users u
		JOIN user_servers us ON us.user_id = u.id
		WHERE us.server_discord_id = ? AND u.notify_on_bulletin = 1
		ORDER BY u.discord_id`,
		serverDiscordID,
	)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	defer rows.Close()

	var subscribers []string
	for rows.Next() {
		var discordID string
		if err := rows.Scan(&discordID); err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		subscribers = append(subscribers, discordID)
	}
	return subscribers, rows.Err()
}

// --- Servers ---

// UpsertServer inserts a server row if one does not exist for the Discord
// id. Bulletin settings keep their current values on conflict.
func (r *SQLiteRepo) UpsertServer(ctx context.Context, discordID string) (*domain.Server, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO servers (id, discord_id) VALUES (?, ?)
		ON CONFLICT(discord_id) DO NOTHING`,
		uuid.NewString(), discordID,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert server: %w", err)
	}
	return r.getServer(ctx, discordID)
}

func (r *SQLiteRepo) getServer(ctx context.Context, discordID string) (*domain.Server, error) {
	var (
		id       string
		channel  string
		minimum  int
		heatMin  int
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, bulletin_channel, bulletin_minimum, heat_minimum
		FROM servers WHERE discord_id = ?`,
		discordID,
	).Scan(&id, &channel, &minimum, &heatMin)
	if err != nil {
		return nil, fmt.Errorf("get server %s: %w", discordID, err)
	}

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("decode server id %q: %w", id, err)
	}

	return &domain.Server{
		ID:              parsedID,
		DiscordID:       discordID,
		BulletinChannel: channel,
		BulletinMinimum: minimum,
		HeatMinimum:     heatMin,
	}, nil
}

func (r *SQLiteRepo) setServerField(ctx context.Context, discordID, query string, value any) (*domain.Server, error) {
	if _, err := r.UpsertServer(ctx, discordID); err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, query, value, discordID); err != nil {
		return nil, fmt.Errorf("set server field: %w", err)
	}
	return r.getServer(ctx, discordID)
}

func (r *SQLiteRepo) SetBulletinChannel(ctx context.Context, serverDiscordID, channelID string) (*domain.Server, error) {
	return r.setServerField(ctx, serverDiscordID,
		`UPDATE servers SET bulletin_channel = ? WHERE discord_id = ?`, channelID)
}

func (r *SQLiteRepo) SetBulletinMinimum(ctx context.Context, serverDiscordID string, minimum int) (*domain.Server, error) {
	return r.setServerField(ctx, serverDiscordID,
		`UPDATE servers SET bulletin_minimum = ? WHERE discord_id = ?`, minimum)
}

func (r *SQLiteRepo) SetHeatMinimum(ctx context.Context, serverDiscordID string, minimum int) (*domain.Server, error) {
	return r.setServerField(ctx, serverDiscordID,
		`UPDATE servers SET heat_minimum = ? WHERE discord_id = ?`, minimum)
}

// --- Tickers ---

// FetchTicker loads the (user, week) ticker, or returns a fresh in-memory
// one when no row exists.
func (r *SQLiteRepo) FetchTicker(ctx context.Context, user *domain.User, weekOf time.Time) (*domain.Ticker, error) {
	var (
		tickerID  int64
		priceNS   sql.NullInt64
		patternNS sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, purchase_price, final_pattern
		FROM tickers WHERE user_id = ? AND week_of = ?`,
		user.ID.String(), encodeDate(weekOf),
	).Scan(&tickerID, &priceNS, &patternNS)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewTicker(user.ID, weekOf), nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch ticker: %w", err)
	}

	pattern, err := decodePattern(patternNS)
	if err != nil {
		return nil, err
	}

	ticker := domain.NewTicker(user.ID, weekOf)
	ticker.PurchasePrice = fromNullInt64(priceNS)
	ticker.FinalPattern = pattern

	rows, err := r.db.QueryContext(ctx,
		`SELECT phase, price FROM ticker_phases WHERE ticker_id = ?`, tickerID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch phases: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var phase, price int
		if err := rows.Scan(&phase, &price); err != nil {
			return nil, err
		}
		ticker.Phases[phase] = price
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ticker, nil
}

// ensureTickerRow upserts the (user, week) row and returns its id. The
// unique index makes this race-safe: concurrent writers converge on one row.
func (r *SQLiteRepo) ensureTickerRow(ctx context.Context, tx *sql.Tx, user *domain.User, weekOf time.Time) (int64, error) {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO tickers (user_id, week_of) VALUES (?, ?)
		ON CONFLICT(user_id, week_of) DO NOTHING`,
		user.ID.String(), encodeDate(weekOf),
	)
	if err != nil {
		return 0, fmt.Errorf("ensure ticker: %w", err)
	}

	var tickerID int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM tickers WHERE user_id = ? AND week_of = ?`,
		user.ID.String(), encodeDate(weekOf),
	).Scan(&tickerID)
	if err != nil {
		return 0, fmt.Errorf("resolve ticker: %w", err)
	}
	return tickerID, nil
}

// UpdateTickerPrice writes a single slot of the week's ticker: the purchase
// price for Sundays, one phase row otherwise. No other slot is touched.
func (r *SQLiteRepo) UpdateTickerPrice(
	ctx context.Context,
	user *domain.User,
	weekOf, priceDate time.Time,
	timeOfDay *domain.TimeOfDay,
	price int,
) (*domain.Ticker, error) {
	if err := domain.ValidatePeriod(priceDate, timeOfDay); err != nil {
		return nil, err
	}
	phase, err := domain.PhaseIndex(priceDate, timeOfDay)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	tickerID, err := r.ensureTickerRow(ctx, tx, user, weekOf)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if phase == domain.SundayPhase {
		_, err = tx.ExecContext(ctx,
			`UPDATE tickers SET purchase_price = ? WHERE id = ?`,
			price, tickerID,
		)
	} else {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO ticker_phases (ticker_id, phase, price) VALUES (?, ?, ?)
			ON CONFLICT(ticker_id, phase) DO UPDATE SET price = excluded.price`,
			tickerID, phase, price,
		)
	}
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("update ticker price: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.FetchTicker(ctx, user, weekOf)
}

// UpdateTickerPattern sets only the week's final pattern.
func (r *SQLiteRepo) UpdateTickerPattern(ctx context.Context, user *domain.User, weekOf time.Time, pattern domain.Pattern) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	tickerID, err := r.ensureTickerRow(ctx, tx, user, weekOf)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE tickers SET final_pattern = ? WHERE id = ?`,
		encodePattern(&pattern), tickerID,
	)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("update ticker pattern: %w", err)
	}
	return tx.Commit()
}

// FetchPreviousPattern returns the confirmed pattern of the week prior to
// weekOfCurrent, defaulting to PatternUnknown.
func (r *SQLiteRepo) FetchPreviousPattern(ctx context.Context, user *domain.User, weekOfCurrent time.Time) (domain.Pattern, error) {
	previousWeek := domain.DateOnly(weekOfCurrent).Add(-oneWeek)

	var patternNS sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT final_pattern FROM tickers WHERE user_id = ? AND week_of = ?`,
		user.ID.String(), encodeDate(previousWeek),
	).Scan(&patternNS)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.PatternUnknown, nil
	}
	if err != nil {
		return domain.PatternUnknown, fmt.Errorf("fetch previous pattern: %w", err)
	}

	pattern, err := decodePattern(patternNS)
	if err != nil {
		return domain.PatternUnknown, err
	}
	if pattern == nil {
		return domain.PatternUnknown, nil
	}
	return *pattern, nil
}
