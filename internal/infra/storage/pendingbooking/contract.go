package pendingbooking

import "github.com/m04kA/SMC-SessionService/pkg/txmanager"

// DBExecutor общий интерфейс *sql.DB и *sql.Tx
type DBExecutor = txmanager.DBExecutor
