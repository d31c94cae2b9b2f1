package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfoliopro/portfoliopro/internal/domain/entity"
	repo "github.com/portfoliopro/portfoliopro/internal/domain/repository"
)

// fakePortfolioRepo embeds the interface so only the methods a test
// exercises need an override. Calling anything else panics.
type fakePortfolioRepo struct {
	repo.PortfolioRepository

	slugs    map[string]bool
	sections []*entity.CustomSection
}

func (f *fakePortfolioRepo) SlugExists(_ context.Context, _ string, slug string) (bool, error) {
	return f.slugs[slug], nil
}

func (f *fakePortfolioRepo) CreateCustomSection(_ context.Context, sec *entity.CustomSection) error {
	f.slugs[sec.Slug] = true
	f.sections = append(f.sections, sec)
	return nil
}

func (f *fakePortfolioRepo) GetCustomSection(_ context.Context, userID, id string) (*entity.CustomSection, error) {
	for _, s := range f.sections {
		if s.ID == id && s.UserID == userID {
			return s, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakePortfolioRepo) UpdateCustomSection(_ context.Context, sec *entity.CustomSection) error {
	for i, s := range f.sections {
		if s.ID == sec.ID && s.UserID == sec.UserID {
			f.sections[i] = sec
			return nil
		}
	}
	return repo.ErrNotFound
}

func newPortfolioService(r repo.PortfolioRepository) *PortfolioService {
	return NewPortfolioService(r, nil, nil, quietLogger(), nil, "", 0)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Certifications":        "certifications",
		"My  Side   Projects!!": "my-side-projects",
		"Déjà vu":               "d-j-vu",
		"---":                   "",
		"Already-Slugged":       "already-slugged",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}

func TestCreateCustomSection(t *testing.T) {
	t.Run("derives slug from title", func(t *testing.T) {
		f := &fakePortfolioRepo{slugs: map[string]bool{}}
		svc := newPortfolioService(f)

		sec := &entity.CustomSection{UserID: "u1", Title: "My Certifications"}
		require.NoError(t, svc.CreateCustomSection(context.Background(), sec))
		assert.Equal(t, "my-certifications", sec.Slug)
	})

	t.Run("suffixes a counter on collision", func(t *testing.T) {
		f := &fakePortfolioRepo{slugs: map[string]bool{"awards": true, "awards-2": true}}
		svc := newPortfolioService(f)

		sec := &entity.CustomSection{UserID: "u1", Title: "Awards"}
		require.NoError(t, svc.CreateCustomSection(context.Background(), sec))
		assert.Equal(t, "awards-3", sec.Slug)
	})

	t.Run("explicit slug collision is an error", func(t *testing.T) {
		f := &fakePortfolioRepo{slugs: map[string]bool{"awards": true}}
		svc := newPortfolioService(f)

		sec := &entity.CustomSection{UserID: "u1", Title: "Anything", Slug: "awards"}
		err := svc.CreateCustomSection(context.Background(), sec)
		assert.ErrorIs(t, err, ErrSlugTaken)
	})

	t.Run("empty title falls back to a default slug", func(t *testing.T) {
		f := &fakePortfolioRepo{slugs: map[string]bool{}}
		svc := newPortfolioService(f)

		sec := &entity.CustomSection{UserID: "u1", Title: "!!!"}
		require.NoError(t, svc.CreateCustomSection(context.Background(), sec))
		assert.Equal(t, "section", sec.Slug)
	})
}

func TestUpdateCustomSection(t *testing.T) {
	seed := func() *fakePortfolioRepo {
		return &fakePortfolioRepo{
			slugs: map[string]bool{"awards": true, "talks": true},
			sections: []*entity.CustomSection{
				{ID: "s1", UserID: "u1", Title: "Awards", Slug: "awards", Position: 1},
			},
		}
	}

	t.Run("persists slug and position", func(t *testing.T) {
		f := seed()
		svc := newPortfolioService(f)

		sec := &entity.CustomSection{ID: "s1", UserID: "u1", Title: "Honours", Slug: "honours", Position: 4}
		require.NoError(t, svc.UpdateCustomSection(context.Background(), sec))

		got, err := f.GetCustomSection(context.Background(), "u1", "s1")
		require.NoError(t, err)
		assert.Equal(t, "honours", got.Slug)
		assert.Equal(t, 4, got.Position)
	})

	t.Run("omitted slug keeps the stored one", func(t *testing.T) {
		f := seed()
		svc := newPortfolioService(f)

		sec := &entity.CustomSection{ID: "s1", UserID: "u1", Title: "Honours"}
		require.NoError(t, svc.UpdateCustomSection(context.Background(), sec))
		assert.Equal(t, "awards", sec.Slug)
	})

	t.Run("slug of another section is refused", func(t *testing.T) {
		f := seed()
		svc := newPortfolioService(f)

		sec := &entity.CustomSection{ID: "s1", UserID: "u1", Title: "Awards", Slug: "talks"}
		err := svc.UpdateCustomSection(context.Background(), sec)
		assert.ErrorIs(t, err, ErrSlugTaken)
	})

	t.Run("unknown section", func(t *testing.T) {
		svc := newPortfolioService(seed())
		sec := &entity.CustomSection{ID: "ghost", UserID: "u1", Title: "X"}
		err := svc.UpdateCustomSection(context.Background(), sec)
		assert.ErrorIs(t, err, ErrSectionNotFound)
	})
}

func TestGetCustomSectionNotFound(t *testing.T) {
	svc := newPortfolioService(&fakePortfolioRepo{})
	_, err := svc.GetCustomSection(context.Background(), "u1", "missing")
	assert.ErrorIs(t, err, ErrSectionNotFound)
}

func TestUploadImageDisabled(t *testing.T) {
	svc := newPortfolioService(&fakePortfolioRepo{})
	_, err := svc.UploadImage(context.Background(), "u1", "photos", nil, "a.png", "image/png")
	assert.ErrorIs(t, err, ErrUploadDisabled)
}
