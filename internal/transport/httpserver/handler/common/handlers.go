package common

import (
	identitydomain "fintrack-go/internal/domain/identity"
	preferencesdomain "fintrack-go/internal/domain/preferences"
	"fintrack-go/pkg/logger"
)

type Handlers struct {
	Identity    *identitydomain.Service
	Preferences *preferencesdomain.Service
	log         logger.Logger
}

func New(identity *identitydomain.Service, preferences *preferencesdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Identity:    identity,
		Preferences: preferences,
		log:         log,
	}
}
