package domain

import "time"

// User is the account aggregate shared by artists, professionals and admins.
type User struct {
	ID               string
	Email            Email
	PasswordHash     string
	Role             Role
	DisplayName      string
	Bio              string
	Genres           []string
	Location         string
	AvatarURL        URL
	Links            Links
	ProfessionalType ProfessionalType
	Company          string
	Classification   *Classification
	Plan             Plan
	Status           UserStatus
	Verified         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
	LastSignInAt     *time.Time
}

// Links holds the external presence of a profile.
type Links struct {
	Website    URL
	Spotify    URL
	Instagram  URL
	YouTube    URL
	SoundCloud URL
}

// NewLinks validates every link, keeping empty ones empty.
func NewLinks(website, spotify, instagram, youtube, soundcloud string) (Links, error) {
	ws, err := NewURL("links.website", website)
	if err != nil {
		return Links{}, err
	}
	sp, err := NewURL("links.spotify", spotify)
	if err != nil {
		return Links{}, err
	}
	ig, err := NewURL("links.instagram", instagram)
	if err != nil {
		return Links{}, err
	}
	yt, err := NewURL("links.youtube", youtube)
	if err != nil {
		return Links{}, err
	}
	sc, err := NewURL("links.soundcloud", soundcloud)
	if err != nil {
		return Links{}, err
	}
	return Links{Website: ws, Spotify: sp, Instagram: ig, YouTube: yt, SoundCloud: sc}, nil
}

// IsActive reports whether the account may sign in and be shown publicly.
func (u User) IsActive() bool {
	return u.Status == "" || u.Status == UserActive
}

// IsArtist reports whether the user is on the artist side.
func (u User) IsArtist() bool {
	return u.Role == RoleArtist
}

// IsProfessional reports whether the user is on the professional side.
func (u User) IsProfessional() bool {
	return u.Role == RoleProfessional
}

// ProfilePatch carries optional profile changes; nil fields are left untouched.
type ProfilePatch struct {
	DisplayName      *string
	Bio              *string
	Genres           []string
	GenresSet        bool
	Location         *string
	AvatarURL        *string
	Links            *Links
	ProfessionalType *string
	Company          *string
}

// Apply validates the patch and applies it to u.
func (p ProfilePatch) Apply(u *User) error {
	if p.DisplayName != nil {
		name, err := NewDisplayName(*p.DisplayName)
		if err != nil {
			return err
		}
		u.DisplayName = name
	}
	if p.Bio != nil {
		bio, err := LimitRunes("bio", *p.Bio, 2000)
		if err != nil {
			return err
		}
		u.Bio = bio
	}
	if p.GenresSet {
		genres, err := NormalizeGenres(p.Genres)
		if err != nil {
			return err
		}
		u.Genres = genres
	}
	if p.Location != nil {
		location, err := LimitRunes("location", *p.Location, 120)
		if err != nil {
			return err
		}
		u.Location = location
	}
	if p.AvatarURL != nil {
		avatar, err := NewURL("avatarUrl", *p.AvatarURL)
		if err != nil {
			return err
		}
		u.AvatarURL = avatar
	}
	if p.Links != nil {
		links, err := NewLinks(p.Links.Website.String(), p.Links.Spotify.String(), p.Links.Instagram.String(), p.Links.YouTube.String(), p.Links.SoundCloud.String())
		if err != nil {
			return err
		}
		u.Links = links
	}
	if p.ProfessionalType != nil {
		if !u.IsProfessional() {
			return Invalid("professionalType", "only professionals have a professional type")
		}
		pt, err := NewProfessionalType(*p.ProfessionalType)
		if err != nil {
			return err
		}
		u.ProfessionalType = pt
	}
	if p.Company != nil {
		company, err := LimitRunes("company", *p.Company, 120)
		if err != nil {
			return err
		}
		u.Company = company
	}
	return nil
}
