// Package domain contains core concepts of the chat system.
// This file defines the user identity shared by every component.
// No runtime, network, or UI logic should be added here.
package domain

import "strconv"

// UserID is the verified numeric identity of a chat user.
type UserID int64

func (u UserID) String() string {
	return strconv.FormatInt(int64(u), 10)
}

// ParseUserID parses the decimal form produced by String.
func ParseUserID(s string) (UserID, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return UserID(id), nil
}
