package services

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"image/color"
	"net/http"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"

	"github.com/yungbote/pitchbridge/internal/backend"
	"github.com/yungbote/pitchbridge/internal/domain"
	"github.com/yungbote/pitchbridge/internal/platform/apierr"
	"github.com/yungbote/pitchbridge/internal/platform/logger"
	"github.com/yungbote/pitchbridge/internal/session"
)

const avatarSize = 256

// AvatarService renders the initials glyph shown wherever a profile appears.
type AvatarService interface {
	Render(name, hexColor string) ([]byte, error)
	ForProfile(ctx context.Context, sess *session.Session, profileID string) ([]byte, error)
}

type avatarService struct {
	log    *logger.Logger
	tables backend.Tables

	colorByHex map[string]color.NRGBA
	fallback   color.NRGBA

	// gg contexts share the face; drawing is serialized.
	mu       sync.Mutex
	fontFace font.Face
}

func NewAvatarService(log *logger.Logger, tables backend.Tables) (AvatarService, error) {
	serviceLog := log.With("service", "AvatarService")

	colorByHex := make(map[string]color.NRGBA, len(domain.AvatarPalette))
	for _, h := range domain.AvatarPalette {
		c, err := hexToNRGBA(h)
		if err != nil {
			return nil, fmt.Errorf("bad palette colour %q: %w", h, err)
		}
		colorByHex[normalizeHex(h)] = c
	}
	fallback, _ := hexToNRGBA(domain.DefaultAvatarColor)

	face, err := loadFontFace(gobold.TTF, avatarSize*0.4)
	if err != nil {
		return nil, fmt.Errorf("could not load avatar font: %w", err)
	}

	return &avatarService{
		log:        serviceLog,
		tables:     tables,
		colorByHex: colorByHex,
		fallback:   fallback,
		fontFace:   face,
	}, nil
}

func (as *avatarService) ForProfile(ctx context.Context, sess *session.Session, profileID string) ([]byte, error) {
	p, err := backend.One[domain.Profile](sess.Context(ctx), as.tables,
		backend.From(domain.TableProfiles).Where(backend.Eq("id", profileID)))
	if err != nil {
		if errors.Is(err, backend.ErrNoRows) {
			return nil, apierr.New(http.StatusNotFound, "profile_not_found", errors.New("Profile not found."))
		}
		return nil, remote(http.StatusBadGateway, "avatar_failed", err)
	}
	return as.Render(p.DisplayName("User"), p.AvatarColor)
}

// Render draws a circle in hexColor with the name's initials. Colours outside
// the palette fall back to the default.
func (as *avatarService) Render(name, hexColor string) ([]byte, error) {
	as.mu.Lock()
	defer as.mu.Unlock()

	const size = avatarSize
	dc := gg.NewContext(size, size)

	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()

	dc.SetColor(as.pickColor(hexColor))
	dc.DrawRectangle(0, 0, float64(size), float64(size))
	dc.Fill()

	initials := domain.Initials(name)
	if initials == "" {
		initials = "?"
	}
	dc.SetFontFace(as.fontFace)
	dc.SetColor(color.White)
	dc.DrawStringAnchored(initials, float64(size)/2, float64(size)/2, 0.5, 0.35)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func (as *avatarService) pickColor(hexStr string) color.NRGBA {
	if c, ok := as.colorByHex[normalizeHex(hexStr)]; ok {
		return c
	}
	return as.fallback
}

func normalizeHex(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	s = strings.ToUpper(s)
	if len(s) != 7 {
		return ""
	}
	return s
}

func hexToNRGBA(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("expected 6 hex chars")
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex")
	}
	return color.NRGBA{R: raw[0], G: raw[1], B: raw[2], A: 0xff}, nil
}

func loadFontFace(ttf []byte, size float64) (font.Face, error) {
	parsedFont, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}
