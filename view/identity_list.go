package view

import "github.com/mycelian/mycelian-identities/client"

// PartitionPrimary splits identities into the primary one (nil when there is
// none) and the rest, keeping order. Should the service ever report two
// primaries, only the first is treated as primary.
func PartitionPrimary(ids []client.Identity) (primary *client.Identity, others []client.Identity) {
	others = make([]client.Identity, 0, len(ids))
	for i := range ids {
		if ids[i].IsPrimary && primary == nil {
			p := ids[i]
			primary = &p
			continue
		}
		others = append(others, ids[i])
	}
	return primary, others
}

// CanSetPrimary reports whether the set-primary action is offered for id.
func CanSetPrimary(id client.Identity) bool { return !id.IsPrimary }
