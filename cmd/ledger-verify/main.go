package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/hospitalia/farmacia-api/internal/domain/entity"
	"github.com/hospitalia/farmacia-api/pkg/config"
)

// ledger-verify reconstruye el stock de cada lote reproduciendo su ledger de
// movimientos en orden y lo compara contra current_stock. Cualquier
// discrepancia indica una escritura que saltó el servicio de mutación.
// Sale con código 1 si hay discrepancias.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[CONFIG] %v", err)
	}

	ctx := context.Background()
	pool := connectDB(ctx, cfg.DB.ConnectionString())
	defer pool.Close()

	mismatches := verifyLedger(ctx, pool)
	if mismatches > 0 {
		log.Printf("[FAIL] %d lote(s) con discrepancia entre ledger y current_stock", mismatches)
		os.Exit(1)
	}
	log.Println("[DONE] ledger y current_stock coinciden en todos los lotes")
}

func connectDB(ctx context.Context, url string) *pgxpool.Pool {
	connCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		log.Fatalf("[CONNECT] failed to create pool: %v", err)
	}
	if err := pool.Ping(connCtx); err != nil {
		log.Fatalf("[CONNECT] failed to ping database: %v", err)
	}
	log.Println("[CONNECT] success")
	return pool
}

type batchRow struct {
	id           string
	batchNumber  string
	currentStock int64
}

func verifyLedger(ctx context.Context, pool *pgxpool.Pool) int {
	rows, err := pool.Query(ctx, `SELECT id, batch_number, current_stock FROM medicine_batches ORDER BY id`)
	if err != nil {
		log.Fatalf("[QUERY] medicine_batches: %v", err)
	}
	defer rows.Close()

	var batches []batchRow
	for rows.Next() {
		var b batchRow
		if err := rows.Scan(&b.id, &b.batchNumber, &b.currentStock); err != nil {
			log.Fatalf("[SCAN] medicine_batches: %v", err)
		}
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		log.Fatalf("[QUERY] medicine_batches: %v", err)
	}

	mismatches := 0
	for _, b := range batches {
		replayed, entries, err := replayBatch(ctx, pool, b.id)
		if err != nil {
			log.Fatalf("[REPLAY] lote %s: %v", b.id, err)
		}
		if replayed != b.currentStock {
			mismatches++
			log.Printf("[MISMATCH] lote %s (%s): ledger=%d current_stock=%d movimientos=%d",
				b.id, b.batchNumber, replayed, b.currentStock, entries)
			continue
		}
		log.Printf("[OK] lote %s (%s): stock=%d movimientos=%d", b.id, b.batchNumber, replayed, entries)
	}
	return mismatches
}

// replayBatch recorre los movimientos del lote en orden cronológico validando
// además la cadena before/after de cada entrada.
func replayBatch(ctx context.Context, pool *pgxpool.Pool, batchID string) (int64, int, error) {
	rows, err := pool.Query(ctx, `
		SELECT direction, quantity_before, quantity_changed, quantity_after
		FROM stock_movements
		WHERE batch_id = $1
		ORDER BY movement_date ASC, id ASC`, batchID)
	if err != nil {
		return 0, 0, err
	}
	defer rows.Close()

	var stock int64
	entries := 0
	for rows.Next() {
		var direction string
		var before, change, after int64
		if err := rows.Scan(&direction, &before, &change, &after); err != nil {
			return 0, 0, err
		}
		entries++

		if before != stock {
			log.Printf("[CHAIN] lote %s movimiento #%d: quantity_before=%d, esperado %d",
				batchID, entries, before, stock)
		}
		if direction == entity.DirectionOut {
			stock -= change
		} else {
			stock += change
		}
		if after != stock {
			log.Printf("[CHAIN] lote %s movimiento #%d: quantity_after=%d, esperado %d",
				batchID, entries, after, stock)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, 0, err
	}
	return stock, entries, nil
}
