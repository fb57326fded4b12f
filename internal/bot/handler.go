package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/sirupsen/logrus"

	"clubperks/internal/catalog"
	"clubperks/internal/config"
	"clubperks/internal/domain"
	"clubperks/internal/scraper"
	"clubperks/internal/storage"
)

// telegramAPI is the subset of *tgbot.Bot the handler calls.
type telegramAPI interface {
	SendMessage(ctx context.Context, params *tgbot.SendMessageParams) (*models.Message, error)
	GetFile(ctx context.Context, params *tgbot.GetFileParams) (*models.File, error)
	FileDownloadLink(f *models.File) string
}

type commandFunc func(ctx context.Context, msg *models.Message, arg string) string

// Handler holds dependencies for the Telegram bot handlers.
type Handler struct {
	bot      *tgbot.Bot
	api      telegramAPI
	cfg      config.Config
	repo     storage.Repository
	capturer scraper.Capturer
	log      logrus.FieldLogger
	admins   map[int64]bool
	sessions *Sessions
	client   *http.Client
	commands map[string]commandFunc

	// baseCtx is the polling context, used for replies sent from timers.
	ctxMu   sync.RWMutex
	baseCtx context.Context
}

// NewHandler creates a new bot handler instance.
func NewHandler(cfg config.Config, repo storage.Repository, capturer scraper.Capturer, logger logrus.FieldLogger) (*Handler, error) {
	h, err := newHandler(cfg, repo, capturer, logger, catalog.SystemClock{})
	if err != nil {
		return nil, err
	}

	b, err := tgbot.New(cfg.TelegramBotToken, tgbot.WithDefaultHandler(h.defaultHandler))
	if err != nil {
		h.log.WithError(err).Error("Failed to create Telegram bot instance")
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	h.bot = b
	h.api = b

	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/", tgbot.MatchTypePrefix, h.commandHandler)
	h.log.WithField("commands", len(h.commands)).Info("Telegram bot handler initialized")
	return h, nil
}

// newHandler wires everything except the Telegram client.
func newHandler(cfg config.Config, repo storage.Repository, capturer scraper.Capturer, logger logrus.FieldLogger, clock catalog.Clock) (*Handler, error) {
	admins, err := cfg.Admins()
	if err != nil {
		return nil, err
	}
	h := &Handler{
		cfg:      cfg,
		repo:     repo,
		capturer: capturer,
		log:      logger.WithField("component", "bot_handler"),
		admins:   admins,
		client:   &http.Client{Timeout: 30 * time.Second},
		baseCtx:  context.Background(),
	}
	h.sessions = NewSessions(cfg.SearchDebounce, clock, h.onSearchSettled)
	h.commands = map[string]commandFunc{
		"start":     h.startCommand,
		"help":      h.helpCommand,
		"offers":    h.offersCommand,
		"more":      h.moreCommand,
		"category":  h.categoryCommand,
		"city":      h.cityCommand,
		"cities":    h.citiesCommand,
		"sort":      h.sortCommand,
		"clear":     h.clearCommand,
		"filters":   h.filtersCommand,
		"share":     h.shareCommand,
		"save":      h.saveCommand,
		"unsave":    h.unsaveCommand,
		"saved":     h.savedCommand,
		"brands":    h.brandsCommand,
		"brandsite": h.brandSiteCommand,
	}
	return h, nil
}

// Start begins polling for updates from Telegram.
// This function blocks until the context is cancelled.
func (h *Handler) Start(ctx context.Context) {
	h.ctxMu.Lock()
	h.baseCtx = ctx
	h.ctxMu.Unlock()

	h.log.Info("Starting Telegram bot polling...")
	h.bot.Start(ctx)
	h.log.Info("Telegram bot polling stopped.")
}

func (h *Handler) pollingContext() context.Context {
	h.ctxMu.RLock()
	defer h.ctxMu.RUnlock()
	return h.baseCtx
}

func (h *Handler) reply(ctx context.Context, chatID int64, text string) {
	if text == "" {
		return
	}
	_, err := h.api.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.log.WithError(err).WithField("chat_id", chatID).Error("Failed to send message")
	}
}

// commandHandler routes every message starting with "/".
func (h *Handler) commandHandler(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.reply(ctx, update.Message.Chat.ID, h.dispatch(ctx, update.Message))
}

// dispatch runs a command and returns the reply text.
func (h *Handler) dispatch(ctx context.Context, msg *models.Message) string {
	name, arg, ok := ParseCommand(msg.Text)
	if !ok {
		return ""
	}
	log := h.log.WithFields(logrus.Fields{
		"chat_id": msg.Chat.ID,
		"command": "/" + name,
	})
	cmd, ok := h.commands[name]
	if !ok {
		log.Debug("Unknown command")
		return "Unknown command. Send /help for the list."
	}
	log.Info("Received command")
	return cmd(ctx, msg, arg)
}

// defaultHandler treats plain text as search input and photos as brand color samples.
func (h *Handler) defaultHandler(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	if len(msg.Photo) > 0 {
		h.reply(ctx, msg.Chat.ID, h.handlePhoto(ctx, msg))
		return
	}
	if strings.TrimSpace(msg.Text) == "" {
		return
	}
	h.log.WithFields(logrus.Fields{
		"chat_id": msg.Chat.ID,
		"query":   msg.Text,
	}).Debug("Search keystroke")
	h.sessions.Get(msg.Chat.ID).Type(msg.Text)
}

// onSearchSettled sends results once a chat's query has been quiet for the debounce period.
func (h *Handler) onSearchSettled(chatID int64, query string) {
	ctx := h.pollingContext()
	h.log.WithFields(logrus.Fields{
		"chat_id": chatID,
		"query":   query,
	}).Info("Search settled")
	h.reply(ctx, chatID, h.results(ctx, chatID))
}

// results renders the current page of the chat's filtered offers.
func (h *Handler) results(ctx context.Context, chatID int64) string {
	s := h.sessions.Get(chatID)
	offers, err := h.repo.ListOffers(ctx)
	if err != nil {
		h.log.WithError(err).Error("Failed to load offers")
		return "Offers are unavailable right now. Please try again later."
	}
	return FormatResults(catalog.Apply(offers, s.State()), s.Page(), h.cfg.PageSize)
}

func (h *Handler) isAdmin(msg *models.Message) bool {
	return msg.From != nil && h.admins[msg.From.ID]
}

func (h *Handler) startCommand(ctx context.Context, msg *models.Message, arg string) string {
	welcome := "Welcome to ClubPerks! Type anything to search member offers, or send /help."
	if arg == "" {
		return welcome
	}
	state, err := catalog.DecodeFilterState(arg)
	if err != nil {
		h.log.WithError(err).Warn("Ignoring malformed start payload")
		return welcome
	}
	h.sessions.Reset(msg.Chat.ID, state)
	return welcome + "\n\n" + h.results(ctx, msg.Chat.ID)
}

func (h *Handler) helpCommand(context.Context, *models.Message, string) string {
	return strings.Join([]string{
		"Type any text to search offers.",
		"/offers - show matching offers",
		"/more - next page",
		"/category <name|All> - toggle a category (" + categoryChoices() + ")",
		"/city <name|All Cities> - filter by city",
		"/cities - list cities",
		"/sort <mode> - " + sortChoices(),
		"/filters - show active filters",
		"/clear - reset filters",
		"/share - link to this view",
		"/save <id>, /unsave <id>, /saved - bookmarks",
		"/brands - brand colors",
	}, "\n")
}

func (h *Handler) offersCommand(ctx context.Context, msg *models.Message, _ string) string {
	// An explicit request settles any query still being typed.
	s := h.sessions.Get(msg.Chat.ID)
	s.debouncer.Cancel()
	st := s.State()
	if st.SearchQuery != st.DebouncedSearch {
		s.settle(st.SearchQuery)
	}
	return h.results(ctx, msg.Chat.ID)
}

func (h *Handler) moreCommand(ctx context.Context, msg *models.Message, _ string) string {
	h.sessions.Get(msg.Chat.ID).NextPage()
	return h.results(ctx, msg.Chat.ID)
}

// updateFilters applies fn to the chat's state and replies with the new results.
func (h *Handler) updateFilters(ctx context.Context, chatID int64, fn func(*catalog.FilterState) error) string {
	var applyErr error
	h.sessions.Get(chatID).Update(func(s *catalog.FilterState) {
		next := *s
		next.SelectedCategories = append([]string(nil), s.SelectedCategories...)
		if applyErr = fn(&next); applyErr == nil {
			*s = next
		}
	})
	if applyErr != nil {
		return applyErr.Error()
	}
	return h.results(ctx, chatID)
}

func (h *Handler) categoryCommand(ctx context.Context, msg *models.Message, arg string) string {
	return h.updateFilters(ctx, msg.Chat.ID, func(s *catalog.FilterState) error { return applyCategory(s, arg) })
}

func (h *Handler) cityCommand(ctx context.Context, msg *models.Message, arg string) string {
	return h.updateFilters(ctx, msg.Chat.ID, func(s *catalog.FilterState) error { return applyCity(s, arg) })
}

func (h *Handler) sortCommand(ctx context.Context, msg *models.Message, arg string) string {
	return h.updateFilters(ctx, msg.Chat.ID, func(s *catalog.FilterState) error { return applySort(s, arg) })
}

func (h *Handler) citiesCommand(ctx context.Context, _ *models.Message, _ string) string {
	offers, err := h.repo.ListOffers(ctx)
	if err != nil {
		h.log.WithError(err).Error("Failed to load offers")
		return "Offers are unavailable right now. Please try again later."
	}
	return strings.Join(catalog.Cities(offers), "\n")
}

func (h *Handler) clearCommand(ctx context.Context, msg *models.Message, _ string) string {
	h.sessions.Reset(msg.Chat.ID, catalog.NewFilterState())
	return "Filters cleared.\n\n" + h.results(ctx, msg.Chat.ID)
}

func (h *Handler) filtersCommand(_ context.Context, msg *models.Message, _ string) string {
	s := h.sessions.Get(msg.Chat.ID)
	return FormatState(s.State(), s.Searching())
}

func (h *Handler) shareCommand(_ context.Context, msg *models.Message, _ string) string {
	st := h.sessions.Get(msg.Chat.ID).State()
	if !st.HasActiveFilters() {
		return "No filters to share yet."
	}
	return "Open this view with:\n/start " + st.Encode()
}

func (h *Handler) saveCommand(ctx context.Context, msg *models.Message, arg string) string {
	if msg.From == nil {
		return "Bookmarks need a user account."
	}
	if arg == "" {
		return "usage: /save <offer id>"
	}
	offer, err := h.repo.GetOffer(ctx, arg)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Sprintf("No offer with id %q.", arg)
	}
	if err != nil {
		h.log.WithError(err).Error("Failed to look up offer")
		return "Could not save that offer right now."
	}
	err = h.repo.SaveBookmark(ctx, domain.Bookmark{UserID: msg.From.ID, OfferID: offer.OfferID})
	if err != nil {
		return "Could not save that offer right now."
	}
	return "Saved: " + offer.Brand + ": " + offer.Title
}

func (h *Handler) unsaveCommand(ctx context.Context, msg *models.Message, arg string) string {
	if msg.From == nil || arg == "" {
		return "usage: /unsave <offer id>"
	}
	if err := h.repo.DeleteBookmark(ctx, msg.From.ID, arg); err != nil {
		return "Could not remove that bookmark right now."
	}
	return "Removed " + arg + " from your saved offers."
}

func (h *Handler) savedCommand(ctx context.Context, msg *models.Message, _ string) string {
	if msg.From == nil {
		return "Bookmarks need a user account."
	}
	bookmarks, err := h.repo.GetBookmarksByUser(ctx, msg.From.ID)
	if err != nil {
		return "Could not load your saved offers right now."
	}
	if len(bookmarks) == 0 {
		return "You have no saved offers."
	}
	offers, err := h.repo.ListOffers(ctx)
	if err != nil {
		return "Could not load your saved offers right now."
	}
	byID := make(map[string]domain.Offer, len(offers))
	for _, o := range offers {
		if o.Bookmarkable() {
			byID[o.OfferID] = o
		}
	}

	lines := []string{"Your saved offers:"}
	for _, b := range bookmarks {
		o, ok := byID[b.OfferID]
		if !ok {
			lines = append(lines, fmt.Sprintf("%s (no longer available) /unsave %s", b.OfferID, b.OfferID))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s /unsave %s", o.Brand, o.Title, o.OfferID))
	}
	return strings.Join(lines, "\n")
}

func (h *Handler) brandsCommand(ctx context.Context, _ *models.Message, _ string) string {
	brands, err := h.repo.ListBrands(ctx)
	if err != nil {
		return "Could not load brands right now."
	}
	if len(brands) == 0 {
		return "No brands yet."
	}
	lines := make([]string, 0, len(brands))
	for _, b := range brands {
		color := b.Primary
		if color == "" {
			color = "(no color)"
		}
		lines = append(lines, fmt.Sprintf("%s (%s): %s", b.Name, b.Slug, color))
	}
	return strings.Join(lines, "\n")
}

// brandSiteCommand colors a brand from a screenshot of its website: /brandsite <slug> <url>.
func (h *Handler) brandSiteCommand(ctx context.Context, msg *models.Message, arg string) string {
	if !h.isAdmin(msg) {
		return "Only club admins can change brand colors."
	}
	slug, pageURL, _ := strings.Cut(arg, " ")
	pageURL = strings.TrimSpace(pageURL)
	if slug == "" || pageURL == "" {
		return "usage: /brandsite <brand slug> <url>"
	}
	log := h.log.WithFields(logrus.Fields{"brand": slug, "url": pageURL})

	raw, err := h.capturer.CaptureScreenshot(ctx, pageURL)
	if err != nil {
		log.WithError(err).Error("Failed to capture brand site")
		return "Could not capture that page: " + err.Error()
	}
	brand, tokens, err := colorBrandFromBytes(ctx, h.repo, slug, raw)
	if err != nil {
		log.WithError(err).Error("Failed to derive brand color")
		return "Could not read a color from that page."
	}
	log.WithField("primary", brand.Primary).Info("Brand color updated from site")
	return FormatBrandTheme(brand, tokens)
}

// handlePhoto colors the brand named in the caption from the photo's center.
func (h *Handler) handlePhoto(ctx context.Context, msg *models.Message) string {
	if !h.isAdmin(msg) {
		return "Send text to search offers."
	}
	slug := domain.SlugFor(msg.Caption)
	if slug == "" {
		return "Add the brand slug as the photo caption to set its color."
	}
	log := h.log.WithField("brand", slug)

	// Telegram lists photo sizes smallest first.
	largest := msg.Photo[len(msg.Photo)-1]
	file, err := h.api.GetFile(ctx, &tgbot.GetFileParams{FileID: largest.FileID})
	if err != nil {
		log.WithError(err).Error("Failed to get photo file")
		return "Could not download that photo."
	}
	raw, err := download(ctx, h.client, h.api.FileDownloadLink(file))
	if err != nil {
		log.WithError(err).Error("Failed to download photo")
		return "Could not download that photo."
	}
	brand, tokens, err := colorBrandFromBytes(ctx, h.repo, slug, raw)
	if err != nil {
		log.WithError(err).Error("Failed to derive brand color")
		return "Could not read a color from that photo."
	}
	log.WithField("primary", brand.Primary).Info("Brand color updated from photo")
	return FormatBrandTheme(brand, tokens)
}
