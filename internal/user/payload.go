package user

// Ref is the author projection embedded in post, comment and notification
// responses.
type Ref struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"fullName"`
	AvatarURL string `json:"avatarUrl"`
}

func RefOf(u *User) Ref {
	if u == nil {
		return Ref{}
	}
	return Ref{ID: u.ID, Username: u.Username, FullName: u.FullName, AvatarURL: u.AvatarURL}
}

// SyncProfileRequest mirrors the identity service's view of an account
// into the feed's user projection.
type SyncProfileRequest struct {
	Username  string `json:"username"`
	FullName  string `json:"fullName"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatarUrl"`
}

type ProfileResponse struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	FullName       string `json:"fullName"`
	Bio            string `json:"bio"`
	AvatarURL      string `json:"avatarUrl"`
	FollowersCount int64  `json:"followersCount"`
	FollowingCount int64  `json:"followingCount"`
	IsFollowing    bool   `json:"isFollowing"`
}
