package handler

import (
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/paillette/internal/middleware"
	"github.com/iliyamo/paillette/internal/model"
	"github.com/iliyamo/paillette/internal/queue"
	"github.com/iliyamo/paillette/internal/repository"
	"github.com/iliyamo/paillette/internal/service"
)

// maxImageBytes bounds a single roadmap image upload.
const maxImageBytes = 10 << 20

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".pdf": true}

// ShowHandler serves shows, their dependent graph and their images.
type ShowHandler struct {
	DB              *sql.DB
	Cascade         *service.Cascade
	Representations *repository.RepresentationRepo
	UploadDir       string
	Publisher       service.Publisher
}

func NewShowHandler(db *sql.DB, c *service.Cascade, r *repository.RepresentationRepo, uploadDir string, p service.Publisher) *ShowHandler {
	return &ShowHandler{DB: db, Cascade: c, Representations: r, UploadDir: uploadDir, Publisher: p}
}

type showPart struct {
	ID            uint64 `json:"id"`
	Code          string `json:"code"`
	Place         string `json:"place"`
	DateFrom      string `json:"date_from"`
	DateTo        string `json:"date_to"`
	TravelTime    string `json:"travel_time"`
	Configuration string `json:"configuration"`
	Organizer     string `json:"organizer"`
	Comment       string `json:"comment"`
	Payment       string `json:"payment"`
	Contact       string `json:"contact"`
	Planning      string `json:"planning"`
	Hosting       string `json:"hosting"`
	Meal          string `json:"meal"`
}

func showJSON(s model.Show) showPart {
	return showPart{
		ID: s.ID, Code: s.Code, Place: s.Place,
		DateFrom: model.FormatDay(s.DateFrom), DateTo: model.FormatDay(s.DateTo),
		TravelTime: s.TravelTime, Configuration: s.Configuration, Organizer: s.Organizer,
		Comment: s.Comment, Payment: s.Payment, Contact: s.Contact,
		Planning: s.Planning, Hosting: s.Hosting, Meal: s.Meal,
	}
}

type imagePart struct {
	ID       uint64 `json:"id"`
	Filename string `json:"filename"`
}

type showDetail struct {
	showPart
	Representations []repository.RepresentationDetail `json:"representations"`
	Resources       map[string][]uint64               `json:"resources"`
	Images          []imagePart                       `json:"images"`
}

// monthOf reads ?year=&month=, defaulting to the current month.
func monthOf(c echo.Context) (time.Time, error) {
	now := time.Now().UTC()
	year, month := now.Year(), int(now.Month())
	if s := c.QueryParam("year"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1900 || n > 9999 {
			return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "invalid year")
		}
		year = n
	}
	if s := c.QueryParam("month"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 12 {
			return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "invalid month")
		}
		month = n
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), nil
}

func redirectFor(s model.Show) string {
	return fmt.Sprintf("/v1/shows?year=%d&month=%02d", s.DateFrom.Year(), int(s.DateFrom.Month()))
}

// ListMonth returns the shows overlapping a calendar month.
func (h *ShowHandler) ListMonth(c echo.Context) error {
	first, err := monthOf(c)
	if err != nil {
		return fail(c, err)
	}
	last := first.AddDate(0, 1, -1)
	ctx, cancel := withTimeout(c)
	defer cancel()
	shows, err := h.Cascade.Shows.ListOverlapping(ctx, first, last)
	if err != nil {
		return fail(c, err)
	}
	out := make([]showPart, 0, len(shows))
	for _, s := range shows {
		out = append(out, showJSON(s))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"year":  first.Year(),
		"month": int(first.Month()),
		"shows": out,
	})
}

// Get returns a show with its representations, equipment and images.
func (h *ShowHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	s, err := h.Cascade.Shows.GetByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	reps, err := h.Representations.ListByShow(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	res := make(map[string][]uint64, len(model.Categories))
	for _, cat := range model.Categories {
		ids, err := h.Cascade.Equipment.LinkedIDs(ctx, cat, id)
		if err != nil {
			return fail(c, err)
		}
		res[cat.String()] = ids
	}
	imgs, err := h.Cascade.Images.ListByShow(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	images := make([]imagePart, 0, len(imgs))
	for _, img := range imgs {
		images = append(images, imagePart{ID: img.ID, Filename: img.Filename})
	}
	if reps == nil {
		reps = []repository.RepresentationDetail{}
	}
	return c.JSON(http.StatusOK, showDetail{showPart: showJSON(s), Representations: reps, Resources: res, Images: images})
}

// Create inserts a show together with its equipment and representations.
func (h *ShowHandler) Create(c echo.Context) error {
	form, err := parseShowForm(c)
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	actor := middleware.ActorID(c)
	var saved model.Show
	err = service.InTx(ctx, h.DB, actor, func(s service.Scope) error {
		var err error
		saved, err = h.Cascade.CreateShow(ctx, s, form.Fields, form.Resources, form.Reps)
		return err
	})
	if err != nil {
		return fail(c, err)
	}
	h.publishShow(c, queue.ShowCreated, actor, saved)
	return c.JSON(http.StatusCreated, echo.Map{"saved": true, "id": saved.ID, "redirect": redirectFor(saved)})
}

// Update rebuilds a show from the full submitted state.
func (h *ShowHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	form, err := parseShowForm(c)
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	actor := middleware.ActorID(c)
	var saved model.Show
	err = service.InTx(ctx, h.DB, actor, func(s service.Scope) error {
		var err error
		saved, err = h.Cascade.RebuildShow(ctx, s, id, form.Fields, form.Resources, form.Reps)
		return err
	})
	if err != nil {
		return fail(c, err)
	}
	h.publishShow(c, queue.ShowRebuilt, actor, saved)
	return c.JSON(http.StatusOK, echo.Map{"saved": true, "redirect": redirectFor(saved)})
}

// Delete removes a show and its dependent graph.  Image files are removed
// once the transaction has committed; a file that cannot be removed is
// only logged.
func (h *ShowHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	actor := middleware.ActorID(c)
	var images []model.Image
	err = service.InTx(ctx, h.DB, actor, func(s service.Scope) error {
		var err error
		images, err = h.Cascade.DeleteShow(ctx, s, id)
		return err
	})
	if err != nil {
		return fail(c, err)
	}
	for _, img := range images {
		h.removeFile(img.Filename)
	}
	h.publishShow(c, queue.ShowDeleted, actor, model.Show{ID: id})
	return c.NoContent(http.StatusNoContent)
}

// UploadImage attaches a roadmap image to a show.  The file is written
// under a random name before the row is inserted.
func (h *ShowHandler) UploadImage(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image required"})
	}
	if fh.Size > maxImageBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "image too large"})
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !imageExts[ext] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unsupported image type"})
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	if _, err := h.Cascade.Shows.GetByID(ctx, id); err != nil {
		return fail(c, err)
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable image"})
	}
	defer src.Close()
	name := uuid.NewString() + ext
	if err := h.writeFile(src, name); err != nil {
		return fail(c, err)
	}
	img := model.Image{ShowID: id, Filename: name}
	if err := h.Cascade.Images.Create(ctx, &img); err != nil {
		h.removeFile(name)
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, imagePart{ID: img.ID, Filename: img.Filename})
}

// RemoveImage detaches an image from a show and removes its file.
func (h *ShowHandler) RemoveImage(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	imageID, err := pathID(c, "image")
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	img, err := h.Cascade.Images.Delete(ctx, id, imageID)
	if err != nil {
		return fail(c, err)
	}
	h.removeFile(img.Filename)
	return c.NoContent(http.StatusNoContent)
}

func (h *ShowHandler) writeFile(src io.Reader, name string) error {
	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		return fmt.Errorf("mkdir upload dir: %w", err)
	}
	dst, err := os.OpenFile(filepath.Join(h.UploadDir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	if _, err := io.Copy(dst, io.LimitReader(src, maxImageBytes)); err != nil {
		_ = dst.Close()
		h.removeFile(name)
		return fmt.Errorf("write image: %w", err)
	}
	return dst.Close()
}

func (h *ShowHandler) removeFile(name string) {
	if name == "" || name != filepath.Base(name) {
		return
	}
	if err := os.Remove(filepath.Join(h.UploadDir, name)); err != nil && !os.IsNotExist(err) {
		zap.L().Warn("image file not removed", zap.String("file", name), zap.Error(err))
	}
}

func (h *ShowHandler) publishShow(c echo.Context, typ string, actor uint64, s model.Show) {
	h.Publisher.Publish(c.Request().Context(), queue.Event{
		Type:     typ,
		ActorID:  actor,
		ShowID:   s.ID,
		ShowCode: s.Code,
		From:     formatOptional(s.DateFrom),
		To:       formatOptional(s.DateTo),
		At:       time.Now().UTC().Format(time.RFC3339),
	})
}

func formatOptional(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return model.FormatDay(t)
}
