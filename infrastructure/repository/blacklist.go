package repository

import (
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"github.com/planteforte/dashboard-comercial-api/infrastructure/database/postgres"
	"github.com/planteforte/dashboard-comercial-api/internal/domain"
	"github.com/planteforte/dashboard-comercial-api/pkg/utils"
)

const blacklistTable = "sales_blacklist"

// BlacklistRepository guarda as assinaturas de vendas excluídas das
// análises (devoluções, testes, lançamentos duplicados).
type BlacklistRepository interface {
	Contains(fingerprint string) (bool, error)
	Add(entry *domain.BlacklistEntry) error
	All() (map[string]struct{}, error)
	List() ([]*domain.BlacklistEntry, error)
}

type blacklistRepository struct {
	conn *postgres.Connection
}

func NewBlacklistRepository(conn *postgres.Connection) BlacklistRepository {
	return &blacklistRepository{
		conn: conn,
	}
}

func (r *blacklistRepository) Contains(fingerprint string) (bool, error) {
	query := squirrel.
		Select("1").
		From(blacklistTable).
		Where(squirrel.Eq{"fingerprint": fingerprint}).
		Limit(1).
		PlaceholderFormat(squirrel.Dollar)

	blacklistSQL, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("erro ao construir consulta: %w", err)
	}

	rows, err := r.conn.Query(blacklistSQL, args...)
	if err != nil {
		return false, fmt.Errorf("erro ao consultar blacklist: %w", err)
	}
	defer rows.Close()

	found := rows.Next()
	if err := rows.Err(); err != nil {
		return false, err
	}

	return found, nil
}

func (r *blacklistRepository) Add(entry *domain.BlacklistEntry) error {
	// A assinatura sentinela marca venda com dados incompletos; aceitar
	// uma na blacklist apagaria todas elas de uma vez.
	if entry.Fingerprint == "" || entry.Fingerprint == domain.FingerprintSentinel {
		return domain.ErrInvalidFingerprint
	}

	id, err := utils.GenerateID()
	if err != nil {
		return fmt.Errorf("erro ao gerar id da entrada: %w", err)
	}

	entry.ID = id
	entry.CreatedAt = time.Now()

	query := squirrel.
		Insert(blacklistTable).
		Columns("id", "fingerprint", "reason", "created_by", "created_at").
		Values(entry.ID, entry.Fingerprint, entry.Reason, entry.CreatedBy, entry.CreatedAt).
		Suffix("ON CONFLICT (fingerprint) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar)

	blacklistSQL, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir consulta: %w", err)
	}

	_, err = r.conn.Exec(blacklistSQL, args...)
	if err != nil {
		return fmt.Errorf("erro ao inserir na blacklist: %w", err)
	}

	return nil
}

// All devolve o conjunto de assinaturas excluídas. As ingestões leem o
// conjunto inteiro uma vez por execução em vez de consultar venda a venda.
func (r *blacklistRepository) All() (map[string]struct{}, error) {
	query := squirrel.
		Select("fingerprint").
		From(blacklistTable).
		PlaceholderFormat(squirrel.Dollar)

	blacklistSQL, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir consulta: %w", err)
	}

	rows, err := r.conn.Query(blacklistSQL, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao consultar blacklist: %w", err)
	}
	defer rows.Close()

	fingerprints := make(map[string]struct{})
	for rows.Next() {
		var fingerprint string
		if err := rows.Scan(&fingerprint); err != nil {
			return nil, fmt.Errorf("erro ao processar resultado: %w", err)
		}
		fingerprints[fingerprint] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante iteração: %w", err)
	}

	return fingerprints, nil
}

func (r *blacklistRepository) List() ([]*domain.BlacklistEntry, error) {
	query := squirrel.
		Select("id", "fingerprint", "reason", "created_by", "created_at").
		From(blacklistTable).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	blacklistSQL, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir consulta: %w", err)
	}

	rows, err := r.conn.Query(blacklistSQL, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao consultar blacklist: %w", err)
	}
	defer rows.Close()

	var entries []*domain.BlacklistEntry
	for rows.Next() {
		var entry domain.BlacklistEntry
		if err := rows.Scan(&entry.ID, &entry.Fingerprint, &entry.Reason, &entry.CreatedBy, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("erro ao processar resultado: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante iteração: %w", err)
	}

	return entries, nil
}
