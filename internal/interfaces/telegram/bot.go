package telegram

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"dexspread/internal/domain/model"
)

const (
	pollRetryMin = 500 * time.Millisecond
	pollRetryMax = 10 * time.Second

	// /recent 返回的最大条数
	recentLimit = 10
)

// SpreadScanner 扫描端口（消费端窄接口）
type SpreadScanner interface {
	ScanFor(ctx context.Context, callerID int64) model.ScanResult
}

// ThresholdStore 每个会话的最小净利润阈值
type ThresholdStore interface {
	Threshold(callerID int64) float64
	SetThreshold(callerID int64, value float64) error
	Default() float64
}

// AlertSink 告警落库与广播
type AlertSink interface {
	Record(ctx context.Context, alert model.Alert) error
}

// AlertLog 历史告警查询
type AlertLog interface {
	Recent(ctx context.Context, limit int) ([]model.Alert, error)
}

// Deps Bot 运行所需的全部依赖
type Deps struct {
	Scanner        SpreadScanner
	Prefs          ThresholdStore
	Alerts         AlertSink
	Journal        AlertLog
	Instruments    []string
	Venues         []string
	Notional       float64
	Leverage       int
	PollTimeoutSec int
}

// Bot Telegram 命令入口，串行消费 getUpdates 长轮询
type Bot struct {
	client  *Client
	scanner SpreadScanner
	prefs   ThresholdStore
	alerts  AlertSink
	journal AlertLog

	instruments []string
	venues      []string
	notional    float64
	leverage    int
	pollTimeout int

	offset int64
}

func NewBot(client *Client, deps Deps) *Bot {
	pollTimeout := deps.PollTimeoutSec
	if pollTimeout <= 0 {
		pollTimeout = 30
	}
	return &Bot{
		client:      client,
		scanner:     deps.Scanner,
		prefs:       deps.Prefs,
		alerts:      deps.Alerts,
		journal:     deps.Journal,
		instruments: deps.Instruments,
		venues:      deps.Venues,
		notional:    deps.Notional,
		leverage:    deps.Leverage,
		pollTimeout: pollTimeout,
	}
}

// Run 轮询直到 ctx 取消，拉取失败按指数退避重试
func (b *Bot) Run(ctx context.Context) error {
	log.Info().
		Int("poll_timeout_sec", b.pollTimeout).
		Int("instruments", len(b.instruments)).
		Msg("telegram bot started")

	backoff := pollRetryMin
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("telegram bot stopped")
			return nil
		default:
		}

		updates, err := b.client.GetUpdates(ctx, b.offset, b.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				log.Info().Msg("telegram bot stopped")
				return nil
			}
			log.Warn().Err(err).Dur("retry_in", backoff).Msg("get updates failed")
			select {
			case <-ctx.Done():
				log.Info().Msg("telegram bot stopped")
				return nil
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > pollRetryMax {
				backoff = pollRetryMax
			}
			continue
		}
		backoff = pollRetryMin

		for _, up := range updates {
			if up.UpdateID >= b.offset {
				b.offset = up.UpdateID + 1
			}
			b.handleUpdate(ctx, up)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, up Update) {
	switch {
	case up.CallbackQuery != nil:
		b.handleCallback(ctx, up.CallbackQuery)
	case up.Message != nil && up.Message.Text != "":
		b.handleCommand(ctx, up.Message)
	}
}

// callerID 偏好按发送者区分，群聊里各成员互不影响
// 频道消息没有 from，退回会话 id
func callerID(msg *Message) int64 {
	if msg.From != nil {
		return msg.From.ID
	}
	return msg.Chat.ID
}

func (b *Bot) handleCommand(ctx context.Context, msg *Message) {
	cmd := strings.TrimSpace(msg.Text)
	// 只看第一个词，命令后面允许带参数
	if i := strings.IndexByte(cmd, ' '); i > 0 {
		cmd = cmd[:i]
	}
	// 群聊中的命令会带 @botname 后缀
	if strings.HasPrefix(cmd, "/") {
		if i := strings.Index(cmd, "@"); i > 0 {
			cmd = cmd[:i]
		}
	}
	chatID := msg.Chat.ID
	caller := callerID(msg)

	switch cmd {
	case "/start":
		b.send(ctx, chatID, renderWelcome(b.instruments, b.venues), nil)
	case "/scan":
		b.runScan(ctx, chatID, caller)
	case "/settings":
		b.send(ctx, chatID, renderSettings(b.prefs.Threshold(caller)), settingsKeyboard())
	case "/status":
		b.send(ctx, chatID, renderStatus(b.instruments, b.venues, b.notional, b.leverage, b.prefs.Threshold(caller)), nil)
	case "/recent":
		b.handleRecent(ctx, chatID)
	default:
		log.Debug().Str("text", msg.Text).Int64("chat", chatID).Msg("ignoring unknown command")
	}
}

// runScan 以发送者的门槛扫描并播报结果，播报成功后才落库
func (b *Bot) runScan(ctx context.Context, chatID, caller int64) {
	b.send(ctx, chatID, renderScanStart(len(b.instruments)), nil)

	result := b.scanner.ScanFor(ctx, caller)
	if !result.Found() {
		b.send(ctx, chatID, renderNoSpread(result), nil)
		return
	}

	if !b.send(ctx, chatID, renderSpread(result, b.notional, b.leverage), nil) {
		return
	}

	alert := model.Alert{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		DealID:    result.DealID(),
		Spread:    *result.Best,
		Notional:  b.notional,
		Threshold: result.Threshold,
		Timestamp: time.Now().UnixMilli(),
	}
	if err := b.alerts.Record(ctx, alert); err != nil {
		log.Error().Err(err).Str("alert", alert.ID).Msg("record alert failed")
	}
}

// handleRecent 回显日志里最近的告警
func (b *Bot) handleRecent(ctx context.Context, chatID int64) {
	if b.journal == nil {
		b.send(ctx, chatID, renderRecent(nil), nil)
		return
	}
	alerts, err := b.journal.Recent(ctx, recentLimit)
	if err != nil {
		log.Error().Err(err).Int64("chat", chatID).Msg("recent alerts query failed")
		b.send(ctx, chatID, "⚠️ Could not load recent alerts.", nil)
		return
	}
	b.send(ctx, chatID, renderRecent(alerts), nil)
}

func (b *Bot) handleCallback(ctx context.Context, cb *CallbackQuery) {
	value, ok := parseProfitCallback(cb.Data)
	if !ok || cb.Message == nil {
		b.answer(ctx, cb.ID, "")
		return
	}

	chatID := cb.Message.Chat.ID
	if err := b.prefs.SetThreshold(cb.From.ID, value); err != nil {
		log.Warn().Err(err).Str("data", cb.Data).Int64("user", cb.From.ID).Msg("set threshold failed")
		b.answer(ctx, cb.ID, "Invalid threshold")
		return
	}

	if err := b.client.EditMessageText(ctx, chatID, cb.Message.MessageID, renderThresholdSaved(value), nil); err != nil {
		log.Error().Err(err).Int64("chat", chatID).Msg("edit message failed")
	}
	b.answer(ctx, cb.ID, renderThresholdAck(value))
}

func (b *Bot) send(ctx context.Context, chatID int64, text string, keyboard *InlineKeyboardMarkup) bool {
	if _, err := b.client.SendMessage(ctx, chatID, text, keyboard); err != nil {
		log.Error().Err(err).Int64("chat", chatID).Msg("send message failed")
		return false
	}
	return true
}

func (b *Bot) answer(ctx context.Context, callbackID, text string) {
	if err := b.client.AnswerCallbackQuery(ctx, callbackID, text); err != nil {
		log.Error().Err(err).Msg("answer callback failed")
	}
}

// parseProfitCallback 解析 "profit_N" 回调负载
func parseProfitCallback(data string) (float64, bool) {
	raw, ok := strings.CutPrefix(data, "profit_")
	if !ok {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
