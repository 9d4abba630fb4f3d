package tui

import (
	"github.com/elitepos/pos-terminal/internal/api"
	"github.com/elitepos/pos-terminal/internal/catalog"
	"github.com/elitepos/pos-terminal/internal/history"
	"github.com/elitepos/pos-terminal/internal/models"
)

type errorMsg struct{ err error }

type statusMsg string

type loginDoneMsg struct{}

type otpVerifiedMsg struct{}

type otpResentMsg struct{}

type catalogMsg catalog.FetchResult

type historyMsg history.FetchResult

// debounceMsg fires after the search idle delay; stale sequence numbers
// are ignored so only the newest keystroke triggers a fetch.
type debounceMsg struct{ seq int }

type orderCreatedMsg struct{ order *models.Order }

type upiPendingMsg struct{}

type orderLoadedMsg struct{ order *models.Order }

type orderSavedMsg struct{ order *models.Order }

type orderCancelledMsg struct{ order *models.Order }

type productSavedMsg struct{ product *models.Product }

type productDeletedMsg struct{ count int }

type bulkUploadedMsg struct{ result *api.BulkUploadResult }

type batchesLoadedMsg struct{ batches []models.UploadBatch }

type rollbackDoneMsg struct{ uploadID string }

type invoicePrintedMsg struct{ orderID string }
