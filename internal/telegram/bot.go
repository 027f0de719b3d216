package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"ukemeny/internal/config"
	"ukemeny/internal/metrics"
	"ukemeny/internal/planner"
	"ukemeny/internal/recipe"
	"ukemeny/internal/shared"
	"ukemeny/internal/shopping"
)

// Sender is the part of the Telegram API the bot talks through.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// MenuPlanner is the planner surface the bot exposes.
type MenuPlanner interface {
	ForWeek(ctx context.Context, weekStart shared.Date) (*planner.MenuView, bool, error)
	Generate(ctx context.Context, weekStart shared.Date) (*planner.GenerateResult, error)
	Get(ctx context.Context, id int64) (*planner.MenuView, error)
	Regenerate(ctx context.Context, id int64) (*planner.MenuView, error)
	ShoppingList(ctx context.Context, id int64) (*shopping.List, error)
}

// RecipeImporter turns a recipe URL into a stored recipe.
type RecipeImporter interface {
	Import(ctx context.Context, url string) (*recipe.SaveRequest, error)
}

// RecipeCreator stores imported recipes.
type RecipeCreator interface {
	Create(ctx context.Context, req recipe.SaveRequest) (int64, error)
}

// Deps are the services behind the bot commands.
type Deps struct {
	Planner  MenuPlanner
	Importer RecipeImporter
	Recipes  RecipeCreator
	Metrics  *metrics.Store
	DataPath string
}

// Bot answers Telegram commands about the weekly menu.
type Bot struct {
	api     Sender
	deps    Deps
	allowed []int64
	logger  *zap.Logger
	now     func() time.Time
	wg      sync.WaitGroup
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, deps Deps, logger *zap.Logger) (*Bot, error) {
	if err := cfg.RequireTelegram(); err != nil {
		return nil, err
	}
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	logger.Info("telegram authorized", zap.String("account", api.Self.UserName))

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url %s: %w", cfg.TelegramWebhookURL, err)
	}
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	logger.Info("webhook set", zap.String("description", resp.Description))

	return newBot(api, deps, cfg.TelegramAllowedUserIDs, logger), nil
}

func newBot(api Sender, deps Deps, allowed []int64, logger *zap.Logger) *Bot {
	return &Bot{api: api, deps: deps, allowed: allowed, logger: logger, now: time.Now}
}

// HandleWebhook receives one update from Telegram. Messages are processed in
// the background so Telegram gets its answer right away.
func (b *Bot) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		b.logger.Warn("error parsing update", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)

	var from *tgbotapi.User
	switch {
	case update.CallbackQuery != nil:
		from = update.CallbackQuery.From
	case update.Message != nil:
		from = update.Message.From
	default:
		return
	}
	if from == nil || !slices.Contains(b.allowed, from.ID) {
		if from != nil {
			b.logger.Warn("unauthorized access attempt", zap.Int64("user_id", from.ID), zap.String("username", from.UserName))
		}
		return
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if update.CallbackQuery != nil {
			b.handleCallbackQuery(ctx, update.CallbackQuery)
			return
		}
		b.processMessage(ctx, update.Message)
	}()
}

// Wait blocks until every message in flight has been answered.
func (b *Bot) Wait() {
	b.wg.Wait()
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)
	if strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://") {
		b.handleImport(ctx, msg.Chat.ID, text)
		return
	}

	switch msg.Command() {
	case "meny", "start":
		b.handleMenu(ctx, msg.Chat.ID)
	case "ny":
		b.handleNewMenu(ctx, msg.Chat.ID)
	case "bytt":
		b.handleRegenerate(ctx, msg.Chat.ID)
	case "handleliste":
		b.handleShoppingList(ctx, msg.Chat.ID)
	case "status":
		b.handleStatus(ctx, msg.Chat.ID)
	default:
		b.send(tgbotapi.NewMessage(msg.Chat.ID, helpText))
	}
}

const helpText = `Kommandoer:
/meny - ukemenyen for neste uke
/ny - lag en ny meny for neste uke
/bytt - bytt ut alle ulåste middager
/handleliste - handlelisten for neste uke
/status - helse og statistikk
Send en lenke til en oppskrift for å importere den.`

func (b *Bot) nextWeek() shared.Date {
	return planner.GetNextMonday(b.now())
}

func (b *Bot) handleMenu(ctx context.Context, chatID int64) {
	view, created, err := b.deps.Planner.ForWeek(ctx, b.nextWeek())
	if err != nil {
		b.sendError(chatID, "Kunne ikke hente menyen", err)
		return
	}
	text := formatMenuMarkdown(view)
	if created {
		text = "✨ Ny meny laget!\n\n" + text
	}
	b.sendMarkdown(chatID, text)
}

func (b *Bot) handleNewMenu(ctx context.Context, chatID int64) {
	week := b.nextWeek()
	view, created, err := b.deps.Planner.ForWeek(ctx, week)
	if err != nil {
		b.sendError(chatID, "Kunne ikke lage menyen", err)
		return
	}
	if created {
		b.sendMarkdown(chatID, formatMenuMarkdown(view))
		return
	}

	prompt := tgbotapi.NewMessage(chatID,
		fmt.Sprintf("🗓️ Det finnes allerede en meny for uken som starter *%s*.\nHva vil du gjøre?", week))
	prompt.ParseMode = tgbotapi.ModeMarkdown
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Lag på nytt", callbackRedo),
			tgbotapi.NewInlineKeyboardButtonData("⏭️ Planlegg uken etter", callbackNext),
		),
	)
	prompt.ReplyMarkup = keyboard
	b.send(prompt)
}

const (
	callbackRedo = "redo"
	callbackNext = "next"
)

func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		b.logger.Warn("failed to answer callback", zap.Error(err))
	}
	if query.Message == nil {
		return
	}

	week := b.nextWeek()
	switch query.Data {
	case callbackRedo:
	case callbackNext:
		week = week.AddDays(planner.DaysInWeek)
	default:
		return
	}

	chatID := query.Message.Chat.ID
	res, err := b.deps.Planner.Generate(ctx, week)
	if err != nil {
		b.sendError(chatID, "Kunne ikke lage menyen", err)
		return
	}
	view, err := b.deps.Planner.Get(ctx, res.ID)
	if err != nil {
		b.sendError(chatID, "Kunne ikke hente menyen", err)
		return
	}
	edit := tgbotapi.NewEditMessageText(chatID, query.Message.MessageID, formatMenuMarkdown(view))
	edit.ParseMode = tgbotapi.ModeMarkdown
	b.send(edit)
}

func (b *Bot) handleRegenerate(ctx context.Context, chatID int64) {
	current, _, err := b.deps.Planner.ForWeek(ctx, b.nextWeek())
	if err != nil {
		b.sendError(chatID, "Kunne ikke hente menyen", err)
		return
	}
	view, err := b.deps.Planner.Regenerate(ctx, current.ID)
	if err != nil {
		b.sendError(chatID, "Kunne ikke bytte middager", err)
		return
	}
	b.sendMarkdown(chatID, "🔄 Ulåste dager er byttet ut.\n\n"+formatMenuMarkdown(view))
}

func (b *Bot) handleShoppingList(ctx context.Context, chatID int64) {
	view, _, err := b.deps.Planner.ForWeek(ctx, b.nextWeek())
	if err != nil {
		b.sendError(chatID, "Kunne ikke hente menyen", err)
		return
	}
	list, err := b.deps.Planner.ShoppingList(ctx, view.ID)
	if err != nil {
		b.sendError(chatID, "Kunne ikke lage handlelisten", err)
		return
	}
	b.sendMarkdown(chatID, formatShoppingListMarkdown(list))
}

func (b *Bot) handleImport(ctx context.Context, chatID int64, url string) {
	if b.deps.Importer == nil || b.deps.Recipes == nil {
		b.send(tgbotapi.NewMessage(chatID, "Import av oppskrifter er ikke slått på."))
		return
	}
	req, err := b.deps.Importer.Import(ctx, url)
	if err != nil {
		b.sendError(chatID, "Kunne ikke importere oppskriften", err)
		return
	}
	id, err := b.deps.Recipes.Create(ctx, *req)
	if err != nil {
		b.sendError(chatID, "Kunne ikke lagre oppskriften", err)
		return
	}
	b.sendMarkdown(chatID, fmt.Sprintf("✅ *Oppskrift lagret!*\n\n*%s* (#%d, %d ingredienser)",
		escape(req.Name), id, len(req.Items)))
}

func (b *Bot) handleStatus(ctx context.Context, chatID int64) {
	b.sendMarkdown(chatID, formatHealthMarkdown(metrics.GetSysHealth(ctx, b.deps.Metrics, b.deps.DataPath)))
}

func (b *Bot) sendMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	b.send(msg)
}

func (b *Bot) sendError(chatID int64, what string, err error) {
	b.logger.Error(what, zap.Int64("chat_id", chatID), zap.Error(err))
	text := fmt.Sprintf("❌ %s.", what)
	if errors.Is(err, shared.ErrValidation) || errors.Is(err, shared.ErrNotFound) || errors.Is(err, shared.ErrConflict) {
		text = fmt.Sprintf("❌ %s: %s", what, err.Error())
	}
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.logger.Warn("failed to send telegram message", zap.Error(err))
	}
}
