package usage

import "time"

// Usage is one user's cover letter quota inside the current weekly window.
type Usage struct {
	Plan     string    `json:"plan"`
	Limit    int       `json:"limit"`
	Used     int       `json:"used"`
	ResetsAt time.Time `json:"resetsAt"`
}

func (u Usage) Remaining() int {
	return max(u.Limit-u.Used, 0)
}

// Exhausted reports whether no generations are left.
func (u Usage) Exhausted() bool {
	return u.Remaining() == 0
}
