package domain

import "time"

// Lifecycle is the soft-delete state of a link: Active, or Trashed at an instant.
// The zero value is Active.
type Lifecycle struct {
	trashed bool
	at      time.Time
}

// Active returns the live state.
func Active() Lifecycle {
	return Lifecycle{}
}

// Trashed returns the state of a link moved to the trash at the given instant.
func Trashed(at time.Time) Lifecycle {
	return Lifecycle{trashed: true, at: at}
}

// IsTrashed reports whether the link is in the trash.
func (l Lifecycle) IsTrashed() bool {
	return l.trashed
}

// TrashedAt returns the deletion instant and true when trashed.
func (l Lifecycle) TrashedAt() (time.Time, bool) {
	return l.at, l.trashed
}

// timestamp is the nullable wire form used by the "deletedAt" field.
func (l Lifecycle) timestamp() *time.Time {
	if !l.trashed {
		return nil
	}
	at := l.at
	return &at
}

func lifecycleFrom(deletedAt *time.Time) Lifecycle {
	if deletedAt == nil {
		return Active()
	}
	return Trashed(*deletedAt)
}
