package models

import "time"

// Person is the social profile entity, distinct from the User credential
// record that owns it.
type Person struct {
	ID        string
	UserID    string
	Name      string
	Email     string
	CreatedAt time.Time
	Image     string
	FriendIDs []string
}

// WithFriend returns a copy of the person with friendID added to its friend
// set. Adding an id that is already present is a no-op on the set.
func (p *Person) WithFriend(friendID string) *Person {
	c := *p
	c.FriendIDs = append([]string(nil), p.FriendIDs...)
	if !c.HasFriend(friendID) {
		c.FriendIDs = append(c.FriendIDs, friendID)
	}
	return &c
}

func (p *Person) HasFriend(friendID string) bool {
	for _, id := range p.FriendIDs {
		if id == friendID {
			return true
		}
	}
	return false
}
