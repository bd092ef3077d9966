// Package postgres implements the entity store on PostgreSQL. All writes
// are idempotent upserts keyed by the deterministic entity ids.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"dexledger/internal/model"
)

// Store provides Postgres persistence for ledger entities.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) LoadUser(ctx context.Context, id string) (*model.User, error) {
	var (
		user    model.User
		swapped string
	)
	row := s.pool.QueryRow(ctx, `SELECT id, usd_swapped, last_transfer_ts FROM users WHERE id=$1`, id)
	if err := row.Scan(&user.ID, &swapped, &user.LastTransferTimestamp); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	value, err := decimal.NewFromString(swapped)
	if err != nil {
		return nil, fmt.Errorf("parse usd_swapped for %s: %w", id, err)
	}
	user.USDSwapped = value
	return &user, nil
}

func (s *Store) SaveUser(ctx context.Context, user *model.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, usd_swapped, last_transfer_ts, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (id) DO UPDATE SET
			usd_swapped = EXCLUDED.usd_swapped,
			last_transfer_ts = EXCLUDED.last_transfer_ts,
			updated_at = now()
	`, user.ID, user.USDSwapped.String(), int64(user.LastTransferTimestamp))
	return err
}

func (s *Store) LoadToken(ctx context.Context, id string) (*model.Token, error) {
	var (
		token   model.Token
		derived string
	)
	row := s.pool.QueryRow(ctx, `SELECT id, symbol, name, decimals, total_supply, derived_base FROM tokens WHERE id=$1`, id)
	if err := row.Scan(&token.ID, &token.Symbol, &token.Name, &token.Decimals, &token.TotalSupply, &derived); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	value, err := decimal.NewFromString(derived)
	if err != nil {
		return nil, fmt.Errorf("parse derived_base for %s: %w", id, err)
	}
	token.DerivedBase = value
	return &token, nil
}

func (s *Store) SaveToken(ctx context.Context, token *model.Token) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO tokens (id, symbol, name, decimals, total_supply, derived_base, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (id) DO UPDATE SET
			symbol = EXCLUDED.symbol,
			name = EXCLUDED.name,
			decimals = EXCLUDED.decimals,
			total_supply = EXCLUDED.total_supply,
			derived_base = EXCLUDED.derived_base,
			updated_at = now()
	`, token.ID, token.Symbol, token.Name, token.Decimals, token.TotalSupply, token.DerivedBase.String())
	return err
}

func (s *Store) LoadPair(ctx context.Context, id string) (*model.Pair, error) {
	var pair model.Pair
	var reserve0, reserve1, totalSupply, reserveUSD string
	row := s.pool.QueryRow(ctx, `
		SELECT id, token0, token1, reserve0, reserve1, total_supply, reserve_usd,
			liquidity_provider_count, created_at_ts, created_at_block
		FROM pairs WHERE id=$1`, id)
	err := row.Scan(&pair.ID, &pair.Token0, &pair.Token1, &reserve0, &reserve1,
		&totalSupply, &reserveUSD, &pair.LiquidityProviderCount,
		&pair.CreatedAtTimestamp, &pair.CreatedAtBlock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if pair.Reserve0, err = decimal.NewFromString(reserve0); err != nil {
		return nil, fmt.Errorf("parse reserve0 for %s: %w", id, err)
	}
	if pair.Reserve1, err = decimal.NewFromString(reserve1); err != nil {
		return nil, fmt.Errorf("parse reserve1 for %s: %w", id, err)
	}
	if pair.TotalSupply, err = decimal.NewFromString(totalSupply); err != nil {
		return nil, fmt.Errorf("parse total_supply for %s: %w", id, err)
	}
	if pair.ReserveUSD, err = decimal.NewFromString(reserveUSD); err != nil {
		return nil, fmt.Errorf("parse reserve_usd for %s: %w", id, err)
	}
	return &pair, nil
}

func (s *Store) SavePair(ctx context.Context, pair *model.Pair) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO pairs (
			id, token0, token1, reserve0, reserve1, total_supply, reserve_usd,
			liquidity_provider_count, created_at_ts, created_at_block, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,now())
		ON CONFLICT (id) DO UPDATE SET
			reserve0 = EXCLUDED.reserve0,
			reserve1 = EXCLUDED.reserve1,
			total_supply = EXCLUDED.total_supply,
			reserve_usd = EXCLUDED.reserve_usd,
			liquidity_provider_count = EXCLUDED.liquidity_provider_count,
			updated_at = now()
	`, pair.ID, pair.Token0, pair.Token1,
		pair.Reserve0.String(), pair.Reserve1.String(),
		pair.TotalSupply.String(), pair.ReserveUSD.String(),
		int64(pair.LiquidityProviderCount),
		int64(pair.CreatedAtTimestamp), int64(pair.CreatedAtBlock))
	return err
}

func (s *Store) LoadPosition(ctx context.Context, id string) (*model.LiquidityPosition, error) {
	var (
		position model.LiquidityPosition
		balance  string
	)
	row := s.pool.QueryRow(ctx, `SELECT id, pair, "user", balance FROM liquidity_positions WHERE id=$1`, id)
	if err := row.Scan(&position.ID, &position.Pair, &position.User, &balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	value, err := decimal.NewFromString(balance)
	if err != nil {
		return nil, fmt.Errorf("parse balance for %s: %w", id, err)
	}
	position.LiquidityTokenBalance = value
	return &position, nil
}

func (s *Store) SavePosition(ctx context.Context, position *model.LiquidityPosition) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO liquidity_positions (id, pair, "user", balance, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (id) DO UPDATE SET
			balance = EXCLUDED.balance,
			updated_at = now()
	`, position.ID, position.Pair, position.User, position.LiquidityTokenBalance.String())
	return err
}

func (s *Store) SaveSnapshot(ctx context.Context, snapshot *model.LiquidityPositionSnapshot) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO liquidity_position_snapshots (
			id, position_id, "user", pair, ts, block,
			token0_price_usd, token1_price_usd, reserve0, reserve1, reserve_usd,
			lp_total_supply, lp_balance
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (id) DO UPDATE SET
			token0_price_usd = EXCLUDED.token0_price_usd,
			token1_price_usd = EXCLUDED.token1_price_usd,
			reserve0 = EXCLUDED.reserve0,
			reserve1 = EXCLUDED.reserve1,
			reserve_usd = EXCLUDED.reserve_usd,
			lp_total_supply = EXCLUDED.lp_total_supply,
			lp_balance = EXCLUDED.lp_balance
	`, snapshot.ID, snapshot.LiquidityPosition, snapshot.User, snapshot.Pair,
		int64(snapshot.Timestamp), int64(snapshot.Block),
		snapshot.Token0PriceUSD.String(), snapshot.Token1PriceUSD.String(),
		snapshot.Reserve0.String(), snapshot.Reserve1.String(), snapshot.ReserveUSD.String(),
		snapshot.LiquidityTokenTotalSupply.String(), snapshot.LiquidityTokenBalance.String())
	return err
}

func (s *Store) SnapshotsByPosition(ctx context.Context, positionID string) ([]model.LiquidityPositionSnapshot, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, position_id, "user", pair, ts, block,
			token0_price_usd, token1_price_usd, reserve0, reserve1, reserve_usd,
			lp_total_supply, lp_balance
		FROM liquidity_position_snapshots
		WHERE position_id=$1
		ORDER BY ts`, positionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.LiquidityPositionSnapshot, 0)
	for rows.Next() {
		var snapshot model.LiquidityPositionSnapshot
		var p0, p1, r0, r1, rUSD, lpSupply, lpBalance string
		err := rows.Scan(&snapshot.ID, &snapshot.LiquidityPosition, &snapshot.User, &snapshot.Pair,
			&snapshot.Timestamp, &snapshot.Block,
			&p0, &p1, &r0, &r1, &rUSD, &lpSupply, &lpBalance)
		if err != nil {
			return nil, err
		}
		fields := []struct {
			dst *decimal.Decimal
			src string
		}{
			{&snapshot.Token0PriceUSD, p0}, {&snapshot.Token1PriceUSD, p1},
			{&snapshot.Reserve0, r0}, {&snapshot.Reserve1, r1}, {&snapshot.ReserveUSD, rUSD},
			{&snapshot.LiquidityTokenTotalSupply, lpSupply}, {&snapshot.LiquidityTokenBalance, lpBalance},
		}
		for _, field := range fields {
			value, err := decimal.NewFromString(field.src)
			if err != nil {
				return nil, fmt.Errorf("parse snapshot %s: %w", snapshot.ID, err)
			}
			*field.dst = value
		}
		out = append(out, snapshot)
	}
	return out, rows.Err()
}

func (s *Store) LoadBundle(ctx context.Context, id string) (*model.Bundle, error) {
	var (
		bundle model.Bundle
		price  string
	)
	row := s.pool.QueryRow(ctx, `SELECT id, base_price FROM bundles WHERE id=$1`, id)
	if err := row.Scan(&bundle.ID, &price); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	value, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("parse base_price: %w", err)
	}
	bundle.BasePrice = value
	return &bundle, nil
}

func (s *Store) SaveBundle(ctx context.Context, bundle *model.Bundle) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO bundles (id, base_price, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET
			base_price = EXCLUDED.base_price,
			updated_at = now()
	`, bundle.ID, bundle.BasePrice.String())
	return err
}

func (s *Store) LoadBaseTransfer(ctx context.Context, id string) (*model.BaseTransfer, error) {
	var transfer model.BaseTransfer
	row := s.pool.QueryRow(ctx, `
		SELECT id, from_user, to_user, symbol, amount, balance_from, balance_to, ts, block
		FROM base_transfers WHERE id=$1`, id)
	err := row.Scan(&transfer.ID, &transfer.From, &transfer.To, &transfer.Symbol,
		&transfer.AmountTransferred, &transfer.BalanceFrom, &transfer.BalanceTo,
		&transfer.Timestamp, &transfer.Block)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &transfer, nil
}

func (s *Store) SaveBaseTransfer(ctx context.Context, transfer *model.BaseTransfer) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO base_transfers (
			id, from_user, to_user, symbol, amount, balance_from, balance_to, ts, block
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO NOTHING
	`, transfer.ID, transfer.From, transfer.To, transfer.Symbol,
		transfer.AmountTransferred, transfer.BalanceFrom, transfer.BalanceTo,
		int64(transfer.Timestamp), int64(transfer.Block))
	return err
}

// LoadCursor returns the last processed block for a named cursor.
func (s *Store) LoadCursor(ctx context.Context, name string) (uint64, bool, error) {
	if name == "" {
		return 0, false, fmt.Errorf("cursor name required")
	}
	var block uint64
	row := s.pool.QueryRow(ctx, `SELECT last_processed_block FROM ledger_cursor WHERE name=$1`, name)
	if err := row.Scan(&block); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return block, true, nil
}

// SaveCursor upserts the last processed block for a named cursor.
func (s *Store) SaveCursor(ctx context.Context, name string, block uint64) error {
	if name == "" {
		return fmt.Errorf("cursor name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO ledger_cursor (name, last_processed_block, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET last_processed_block = EXCLUDED.last_processed_block, updated_at = now()
	`, name, int64(block))
	return err
}
