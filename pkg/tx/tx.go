package tx

import (
	"context"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/avito-tech/go-transaction-manager/trm/manager"
	"github.com/avito-tech/go-transaction-manager/trm/settings"
	"github.com/jackc/pgx/v5"
)

// Manager оборачивает trm-менеджер с фиксированным уровнем изоляции.
// Все сценарии сервиса это read-modify-write по нескольким таблицам,
// Serializable снимает вопрос о гонках между параллельными процессами.
type Manager struct {
	internal *manager.Manager
	settings pgxv5.Settings
}

func New(db pgxv5.Transactional) *Manager {
	return &Manager{
		internal: manager.Must(pgxv5.NewDefaultFactory(db)),
		settings: pgxv5.MustSettings(
			settings.Must(),
			pgxv5.WithTxOptions(pgx.TxOptions{IsoLevel: pgx.Serializable}),
		),
	}
}

// Do выполняет fn в транзакции. Вложенные вызовы продолжают внешнюю
// транзакцию через контекст.
func (m *Manager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.internal.DoWithSettings(ctx, m.settings, fn)
}
