package identity

import "time"

// Cache holds resolved links keyed by channel identity.
type Cache interface {
	GetByChannel(channelIdentity string) (*Link, bool)
	SetByChannel(channelIdentity string, link *Link, ttl time.Duration)
	DeleteByChannel(channelIdentity string)
}

type noopCache struct{}

func (noopCache) GetByChannel(string) (*Link, bool) {
	return nil, false
}

func (noopCache) SetByChannel(string, *Link, time.Duration) {}

func (noopCache) DeleteByChannel(string) {}
