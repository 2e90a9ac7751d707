// Package bot traduce updates del gateway de mensajería a casos de uso y
// arma las respuestas de texto del bot. La superficie de comandos es
// /login /logout /create /rstpwd /deactive /reactive /download, más los
// eventos de selfie (foto) y ubicación que alimentan el correlador.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AsutoshPati/TelegramAttendanceBot/internal/application/attendance"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/application/auth"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/application/dto"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/application/report"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/application/usecase"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/domain"
	"github.com/AsutoshPati/TelegramAttendanceBot/internal/domain/entity"
	"github.com/AsutoshPati/TelegramAttendanceBot/pkg/logger"
)

// Mensajes fijos del bot.
const (
	msgLoginPrompt   = "Please use command /login to interact further; example\n/login\nemployee ID\npassword"
	msgNotLoggedIn   = "You are not yet logged in"
	msgNotAllowed    = "Sorry!! you can't use this command"
	msgLoginFailed   = "Sorry, login failed; Try again"
	msgLoggedOut     = "You have been logged out; to login again ask your HR for a new password"
	msgFallback      = "Sorry I can't help you in this; Please checkout /help or contact your administrator"
	msgAttendanceOK  = "Your attendance has been added \U0001F44D"
	msgHelp          = "/login - to login a user with employee ID and OTP followed by command\n" +
		"/logout - to logout a user\n" +
		"/create - HR can create a new user with their employee ID, name, role, OTP followed by command\n" +
		"/download - user can download their monthly attendance by providing the month & year followed by command\n" +
		"/rstpwd - HR can reset user password by providing employee ID & OTP followed by command\n" +
		"/deactive - HR can deactivate an user by providing employee ID followed by command\n" +
		"/reactive - HR can reactive an user by providing employee ID followed by command"
)

// Dispatcher enruta un update al caso de uso que corresponde.
type Dispatcher struct {
	authUC     *auth.AuthUseCase
	userUC     *usecase.UserUseCase
	correlator *attendance.Correlator
	reportUC   *report.ReportUseCase
	log        *logger.Logger
}

// NewDispatcher construye el dispatcher.
func NewDispatcher(authUC *auth.AuthUseCase, userUC *usecase.UserUseCase, correlator *attendance.Correlator, reportUC *report.ReportUseCase, log *logger.Logger) *Dispatcher {
	return &Dispatcher{authUC: authUC, userUC: userUC, correlator: correlator, reportUC: reportUC, log: log}
}

// Handle procesa un update y devuelve las respuestas a enviar al chat (puede
// ser más de una: el caso de ventana vencida responde con dos mensajes).
func (d *Dispatcher) Handle(ctx context.Context, up dto.Update) []dto.Reply {
	switch {
	case len(up.Photo) > 0:
		return d.handleEvent(ctx, up, entity.KindSelfie)
	case up.Location != nil:
		return d.handleEvent(ctx, up, entity.KindLocation)
	default:
		return d.handleText(ctx, up)
	}
}

func (d *Dispatcher) handleText(ctx context.Context, up dto.Update) []dto.Reply {
	lines := splitLines(up.Text)
	if len(lines) == 0 {
		return reply(msgFallback)
	}
	cmd := strings.ToLower(strings.TrimPrefix(lines[0], "/"))
	args := lines[1:]

	switch cmd {
	case "start", "hello":
		return d.cmdStart(ctx, up)
	case "help":
		return reply(msgHelp)
	case "login":
		return d.cmdLogin(ctx, up, args)
	case "logout":
		return d.cmdLogout(ctx, up)
	case "create":
		return d.requireHR(ctx, up, func() []dto.Reply { return d.cmdCreate(ctx, args) })
	case "rstpwd":
		return d.requireHR(ctx, up, func() []dto.Reply { return d.cmdResetPwd(ctx, args) })
	case "deactive":
		return d.requireHR(ctx, up, func() []dto.Reply { return d.cmdDeactivate(ctx, args) })
	case "reactive":
		return d.requireHR(ctx, up, func() []dto.Reply { return d.cmdReactivate(ctx, args) })
	case "download":
		return d.cmdDownload(ctx, up, args)
	default:
		return reply(msgFallback)
	}
}

// ── Comandos ──────────────────────────────────────────────────────────────────

func (d *Dispatcher) cmdStart(ctx context.Context, up dto.Update) []dto.Reply {
	user, err := d.authUC.ResolveChat(ctx, up.ChatID)
	if err != nil {
		return d.internalError(err)
	}
	if user == nil {
		return reply(msgLoginPrompt)
	}
	return reply(fmt.Sprintf("Hi, %s; Welcome back", user.FullName))
}

func (d *Dispatcher) cmdLogin(ctx context.Context, up dto.Update, args []string) []dto.Reply {
	if len(args) != 2 {
		return reply(msgLoginPrompt)
	}
	user, err := d.authUC.LoginChat(ctx, args[0], args[1], up.ChatID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return reply(msgLoginFailed)
		}
		return d.internalError(err)
	}
	return reply(fmt.Sprintf("Hello %s", user.FullName))
}

func (d *Dispatcher) cmdLogout(ctx context.Context, up dto.Update) []dto.Reply {
	if err := d.authUC.LogoutChat(ctx, up.ChatID); err != nil {
		if errors.Is(err, domain.ErrNotLoggedIn) {
			return reply(msgNotLoggedIn)
		}
		return d.internalError(err)
	}
	return reply(msgLoggedOut)
}

func (d *Dispatcher) cmdCreate(ctx context.Context, args []string) []dto.Reply {
	if len(args) != 4 {
		return reply("Please use command /create to create user; example\n/create\nemployee ID\nfull name\nrole\nOTP")
	}
	_, err := d.userUC.Create(ctx, dto.CreateUserRequest{
		EmployeeID: args[0],
		FullName:   args[1],
		Role:       args[2],
		Password:   args[3],
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmployeeIDExists) {
			return reply("Employee ID already exists")
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return reply("Please use command /create to create user; example\n/create\nemployee ID\nfull name\nrole\nOTP")
		}
		return d.internalError(err)
	}
	return reply("User has been added")
}

func (d *Dispatcher) cmdResetPwd(ctx context.Context, args []string) []dto.Reply {
	if len(args) != 2 {
		return reply("Please use command /rstpwd to reset password; example\n/rstpwd\nemployee ID\nOTP")
	}
	if err := d.userUC.ResetPassword(ctx, args[0], args[1]); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return reply("Employee doesn't exist or deactivated")
		}
		return d.internalError(err)
	}
	return reply("New OTP has been updated")
}

func (d *Dispatcher) cmdDeactivate(ctx context.Context, args []string) []dto.Reply {
	if len(args) != 1 {
		return reply("Please use command /deactive to deactivate user; example\n/deactive\nemployee ID")
	}
	if err := d.userUC.Deactivate(ctx, args[0]); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return reply("Employee doesn't exist or deactivated")
		}
		return d.internalError(err)
	}
	return reply("User has been deactivated")
}

func (d *Dispatcher) cmdReactivate(ctx context.Context, args []string) []dto.Reply {
	if len(args) != 1 {
		return reply("Please use command /reactive to reactivate user; example\n/reactive\nemployee ID")
	}
	if err := d.userUC.Reactivate(ctx, args[0]); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return reply("Employee doesn't exist")
		}
		return d.internalError(err)
	}
	return reply("User has been reactivated")
}

func (d *Dispatcher) cmdDownload(ctx context.Context, up dto.Update, args []string) []dto.Reply {
	user, err := d.authUC.ResolveChat(ctx, up.ChatID)
	if err != nil {
		return d.internalError(err)
	}
	if user == nil {
		return reply(msgNotLoggedIn)
	}
	if len(args) != 1 {
		return reply("Please use command /download to get your attendance; example\n/download\nMM-YYYY")
	}
	data, filename, err := d.reportUC.BuildPDF(ctx, args[0], user.EmployeeID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return reply("Sorry, I couldn't understand that date; use DD-MM-YYYY, MM-YYYY or YYYY")
		}
		return d.internalError(err)
	}
	return []dto.Reply{{
		Text:     fmt.Sprintf("Here is your attendance for %s", strings.TrimSpace(args[0])),
		Document: data,
		Filename: filename,
	}}
}

// ── Eventos de asistencia ─────────────────────────────────────────────────────

func (d *Dispatcher) handleEvent(ctx context.Context, up dto.Update, kind entity.EventKind) []dto.Reply {
	user, err := d.authUC.ResolveChat(ctx, up.ChatID)
	if err != nil {
		return d.internalError(err)
	}
	if user == nil {
		return reply(msgNotLoggedIn)
	}

	payload := attendance.EventPayload{Selfie: up.Photo, Location: up.Location}
	eventTime := time.Unix(up.Date, 0).UTC()
	res, err := d.correlator.Correlate(ctx, user.ID, kind, payload, eventTime)
	if err != nil {
		if errors.Is(err, domain.ErrMalformedPayload) {
			return reply(msgFallback)
		}
		return d.internalError(err)
	}

	minutes := d.correlator.Delay().Minutes()
	switch res.Outcome {
	case attendance.OutcomeCompleted:
		return reply(msgAttendanceOK)
	case attendance.OutcomeStartedAfterTimeout:
		missed := res.TimedOutKind.Opposite()
		return []dto.Reply{
			{Text: fmt.Sprintf("\U0001F629 Oops.. You are unable to send %s within %.1f minutes", kindLabel(missed), minutes)},
			{Text: fmt.Sprintf("We have added your %s, Please share your %s within %.1f minutes for attendance",
				kindLabel(kind), kindLabel(kind.Opposite()), minutes)},
		}
	default: // OutcomeStarted
		return reply(fmt.Sprintf("%s has been added, Please share your %s within %.1f minutes for attendance",
			kindTitle(kind), kindLabel(kind.Opposite()), minutes))
	}
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// requireHR resuelve la sesión del chat y exige rol HR antes de ejecutar fn.
func (d *Dispatcher) requireHR(ctx context.Context, up dto.Update, fn func() []dto.Reply) []dto.Reply {
	user, err := d.authUC.ResolveChat(ctx, up.ChatID)
	if err != nil {
		return d.internalError(err)
	}
	if user == nil {
		return reply(msgNotLoggedIn)
	}
	if !user.IsHR() {
		return reply(msgNotAllowed)
	}
	return fn()
}

func (d *Dispatcher) internalError(err error) []dto.Reply {
	d.log.Error().Err(err).Msg("fallo procesando update del bot")
	return reply("Something went wrong, please try again later")
}

func reply(text string) []dto.Reply {
	return []dto.Reply{{Text: text}}
}

func kindLabel(k entity.EventKind) string {
	if k == entity.KindSelfie {
		return "selfie"
	}
	return "location"
}

func kindTitle(k entity.EventKind) string {
	if k == entity.KindSelfie {
		return "Selfie"
	}
	return "Location"
}

// splitLines separa el texto del mensaje en líneas no vacías ya recortadas.
func splitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
