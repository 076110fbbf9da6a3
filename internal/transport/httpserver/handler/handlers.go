package handler

import (
	"fintrack-go/internal/transport/httpserver/handler/chat"
	"fintrack-go/internal/transport/httpserver/handler/common"
	"fintrack-go/internal/transport/httpserver/handler/ledger"
)

type Handlers struct {
	Common *common.Handlers
	Ledger *ledger.Handlers
	Chat   *chat.Handlers
}

func New(commonHandlers *common.Handlers, ledgerHandlers *ledger.Handlers, chatHandlers *chat.Handlers) *Handlers {
	return &Handlers{
		Common: commonHandlers,
		Ledger: ledgerHandlers,
		Chat:   chatHandlers,
	}
}
