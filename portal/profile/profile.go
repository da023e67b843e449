// Package profile implements the profile screen: viewing, editing with staged values and saving.
package profile

import (
	"context"
	"encoding/base64"
	"hash/fnv"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/scsit/ges/portal/apiclient"
	"github.com/scsit/ges/portal/banner"
)

type Mode int

const (
	Viewing Mode = iota
	Editing
	Saving
)

func (m Mode) String() string {
	switch m {
	case Editing:
		return "editing"
	case Saving:
		return "saving"
	default:
		return "viewing"
	}
}

// MaxAvatarSize is the largest accepted avatar, in bytes.
const MaxAvatarSize = 2 * 1024 * 1024

const (
	msgAvatarTooLarge   = "Avatar file size must be under 2MB."
	msgAvatarType       = "Only JPEG, PNG, or GIF images are allowed."
	msgNamesRequired    = "First name and last name are required."
	msgStudentIDNeeded  = "Student ID is required for students."
	msgSaved            = "Profile saved successfully!"
	msgLoadFailed       = "Failed to load profile. Please try again later."
	msgReloadFailed     = "Failed to reload profile."
	msgSaveFailed       = "Failed to save profile. Please try again."
	msgUsernameTaken    = "Username is already taken."
	msgAvatarFailed     = "Failed to upload avatar."
	msgInvalidData      = "Invalid data provided."
	msgNetwork          = "Network error: Unable to reach the server."
)

var avatarTypes = []string{"image/jpeg", "image/png", "image/gif"}

// Fields are the editable profile values. Email and Role are shown read-only.
type Fields struct {
	FirstName     string
	MiddleName    string
	LastName      string
	Username      string
	StudentID     string
	Gender        string
	ContactNumber string
	Address       string

	Email string
	Role  string
}

func fieldsOf(u apiclient.User) Fields {
	return Fields{
		FirstName:     u.FirstName,
		MiddleName:    u.MiddleName,
		LastName:      u.LastName,
		Username:      u.Username,
		StudentID:     u.StudentID,
		Gender:        u.Gender,
		ContactNumber: u.ContactNumber,
		Address:       u.Address,
		Email:         u.Email,
		Role:          u.Role,
	}
}

// Screen is not safe for concurrent use.
type Screen struct {
	client  *apiclient.Client
	Banners *banner.Board

	mode         Mode
	user         apiclient.User
	staged       Fields
	avatar       *apiclient.Upload
	preview      string
	avatarBroken bool
}

func NewScreen(client *apiclient.Client, banners *banner.Board) *Screen {
	return &Screen{client: client, Banners: banners}
}

func (s *Screen) Mode() Mode { return s.mode }

// User is the server copy of the profile.
func (s *Screen) User() apiclient.User { return s.user }

// FullName joins the non-empty names.
func (s *Screen) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{s.user.FirstName, s.user.MiddleName, s.user.LastName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Load fetches the current user.
func (s *Screen) Load(ctx context.Context) error {
	usr, err := s.client.Me(ctx)
	if err != nil {
		s.Banners.Error(msgLoadFailed)
		return err
	}
	s.setUser(usr)
	return nil
}

func (s *Screen) setUser(usr apiclient.User) {
	usr.Avatar = s.client.AbsoluteURL(usr.Avatar)
	s.user = usr
	s.avatar = nil
	s.preview = usr.Avatar
	s.avatarBroken = false
}

// Edit stages the current values.
func (s *Screen) Edit() {
	if s.mode != Viewing {
		return
	}
	s.staged = fieldsOf(s.user)
	s.mode = Editing
}

// Staged returns the values being edited, nil outside edit mode.
func (s *Screen) Staged() *Fields {
	if s.mode != Editing {
		return nil
	}
	return &s.staged
}

// SelectAvatar stages a new avatar. Oversized or non-image files are rejected
// and leave the staged avatar untouched.
func (s *Screen) SelectAvatar(filename string, data []byte) error {
	if len(data) > MaxAvatarSize {
		s.Banners.Error(msgAvatarTooLarge)
		return apiclient.Invalid(msgAvatarTooLarge)
	}
	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), avatarTypes...) {
		s.Banners.Error(msgAvatarType)
		return apiclient.Invalid(msgAvatarType)
	}

	s.avatar = &apiclient.Upload{Filename: filename, Data: data}
	s.preview = "data:" + mtype.String() + ";base64," + base64.StdEncoding.EncodeToString(data)
	s.avatarBroken = false
	return nil
}

// Preview is the image to show: the staged data URL, else the stored avatar URL.
// It is empty when there is nothing to show and initials should be rendered instead.
func (s *Screen) Preview() string {
	if s.avatarBroken {
		return ""
	}
	return s.preview
}

// AvatarFailed records that the avatar image could not be loaded.
func (s *Screen) AvatarFailed() { s.avatarBroken = true }

// Badge returns the initials fallback and its color.
func (s *Screen) Badge() (initials, color string) {
	initials = Initials(s.user.FirstName, s.user.LastName)
	return initials, BadgeColor(initials)
}

// Save validates the staged values, submits them and leaves edit mode on success.
func (s *Screen) Save(ctx context.Context) error {
	if s.mode != Editing {
		return nil
	}
	f := s.staged
	if strings.TrimSpace(f.FirstName) == "" || strings.TrimSpace(f.LastName) == "" {
		s.Banners.Error(msgNamesRequired)
		return apiclient.Invalid(msgNamesRequired)
	}
	isStudent := s.user.Role == "student"
	if isStudent && strings.TrimSpace(f.StudentID) == "" {
		s.Banners.Error(msgStudentIDNeeded)
		return apiclient.Invalid(msgStudentIDNeeded)
	}

	up := apiclient.ProfileUpdate{
		FirstName:     f.FirstName,
		MiddleName:    f.MiddleName,
		LastName:      f.LastName,
		Username:      f.Username,
		Gender:        f.Gender,
		ContactNumber: f.ContactNumber,
		Address:       f.Address,
	}
	if isStudent {
		up.StudentID = f.StudentID
	}

	s.mode = Saving
	usr, err := s.client.UpdateMe(ctx, up, s.avatar)
	if err != nil {
		s.mode = Editing
		s.Banners.Error(saveMessage(err))
		return err
	}

	s.setUser(usr)
	s.mode = Viewing
	s.Banners.Clear()
	s.Banners.Success(msgSaved)
	return nil
}

// saveMessage picks, in order: the server's error, the student_id error, a taken username,
// the avatar error, the first non-field error, then a generic message.
func saveMessage(err error) string {
	if re, ok := apiclient.AsResponseError(err); ok {
		switch {
		case re.Has("error"):
			return re.Field("error")
		case re.Has("student_id"):
			return re.Field("student_id")
		case re.Has("username"):
			return msgUsernameTaken
		case re.Has("avatar"):
			if msg := re.Field("avatar"); msg != "" {
				return msg
			}
			return msgAvatarFailed
		case re.Has("non_field_errors"):
			return re.Field("non_field_errors")
		}
		return msgInvalidData
	}
	if apiclient.IsNetworkError(err) {
		return msgNetwork
	}
	if err == apiclient.ErrUnauthorized {
		return err.Error()
	}
	return msgSaveFailed
}

// Cancel discards staged edits and re-fetches the server copy.
func (s *Screen) Cancel(ctx context.Context) error {
	s.mode = Viewing
	s.staged = Fields{}
	s.avatar = nil
	s.preview = s.user.Avatar
	s.Banners.Clear()

	usr, err := s.client.Me(ctx)
	if err != nil {
		s.Banners.Error(msgReloadFailed)
		return err
	}
	s.setUser(usr)
	return nil
}

// Initials are the uppercased first letters of first and last name, "NA" when both are empty.
func Initials(first, last string) string {
	var b strings.Builder
	for _, name := range []string{first, last} {
		if name = strings.TrimSpace(name); name != "" {
			b.WriteString(string([]rune(name)[:1]))
		}
	}
	if b.Len() == 0 {
		return "NA"
	}
	return strings.ToUpper(b.String())
}

var badgeColors = []string{
	"#2BA3EC", "#1E3A8A", "#0F766E", "#7C3AED", "#B45309", "#BE123C", "#15803D", "#4338CA",
}

// BadgeColor derives a stable color from the initials.
func BadgeColor(initials string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(initials))
	return badgeColors[h.Sum32()%uint32(len(badgeColors))]
}
