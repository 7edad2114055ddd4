package cli

import (
	"context"
	"io"
	"strings"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/model"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/storage"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Seed is the YAML layout of a directory seed file.
type Seed struct {
	Organizations []SeedOrganization `yaml:"organizations"`
	Users         []SeedUser         `yaml:"users"`
}

type SeedOrganization struct {
	ID     string      `yaml:"id"`
	Name   string      `yaml:"name"`
	Pulses []SeedPulse `yaml:"pulses"`
}

type SeedPulse struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
}

type SeedUser struct {
	ID                   string           `yaml:"id"`
	Email                string           `yaml:"email"`
	Name                 string           `yaml:"name"`
	Timezone             string           `yaml:"timezone"`
	CalendarRefreshToken string           `yaml:"calendar_refresh_token"`
	Memberships          []SeedMembership `yaml:"memberships"`
}

type SeedMembership struct {
	Organization string `yaml:"organization"`
	Pulse        string `yaml:"pulse"`
	Role         string `yaml:"role"`
}

// ReadSeed decodes a seed file. Unknown keys are rejected.
func ReadSeed(r io.Reader) (*Seed, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	s := &Seed{}
	if err := dec.Decode(s); err != nil {
		return nil, errors.Wrap(err, "invalid seed file")
	}
	return s, nil
}

// Apply writes the seed in one transaction and returns the number of
// records created.
func (s *Seed) Apply(ctx context.Context, store storage.Interface) (n int, err error) {
	err = store.Transaction(ctx, func(tx storage.Interface) error {
		n = 0
		dir := tx.Directory()

		for _, o := range s.Organizations {
			if o.ID == "" {
				return errors.New("organization without id")
			}
			if err := dir.CreateOrganization(ctx, &model.Organization{ID: o.ID, Name: o.Name}); err != nil {
				return errors.Wrapf(err, "organization %s", o.ID)
			}
			n++

			for _, p := range o.Pulses {
				if p.ID == "" {
					return errors.Errorf("pulse without id in organization %s", o.ID)
				}
				category := strings.ToUpper(p.Category)
				if category == "" {
					category = model.PulseCategoryTeam
				}
				if err := dir.CreatePulse(ctx, &model.Pulse{
					ID:             p.ID,
					OrganizationID: o.ID,
					Name:           p.Name,
					Category:       category,
				}); err != nil {
					return errors.Wrapf(err, "pulse %s", p.ID)
				}
				n++
			}
		}

		for _, u := range s.Users {
			if u.ID == "" || u.Email == "" {
				return errors.New("user needs an id and an email")
			}
			tz := u.Timezone
			if tz == "" {
				tz = "UTC"
			}
			if err := dir.CreateUser(ctx, &model.User{
				ID:                   u.ID,
				Email:                strings.ToLower(strings.TrimSpace(u.Email)),
				Name:                 u.Name,
				Timezone:             tz,
				CalendarRefreshToken: u.CalendarRefreshToken,
			}); err != nil {
				return errors.Wrapf(err, "user %s", u.ID)
			}
			n++

			for _, m := range u.Memberships {
				role := strings.ToUpper(m.Role)
				if role == "" {
					role = model.RoleMember
				}
				if err := dir.AddMembership(ctx, model.Membership{
					UserID:         u.ID,
					OrganizationID: m.Organization,
					PulseID:        m.Pulse,
					Role:           role,
				}); err != nil {
					return errors.Wrapf(err, "membership of user %s", u.ID)
				}
				n++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}
