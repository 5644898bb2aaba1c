package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ride-marketplace/internal/data/entity"
	"ride-marketplace/internal/data/repository"
	"ride-marketplace/internal/dto/request"
	"ride-marketplace/pkg/apperr"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const departureLayout = "2006-01-02 15:04"

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	username := message.From.UserName
	if username == "" {
		username = message.From.FirstName
	}

	telegramID := strconv.FormatInt(message.From.ID, 10)
	user, err := b.service.User.FindOrCreateByTelegram(ctx, telegramID, username)
	if err != nil {
		b.log.Error("Failed to resolve telegram user",
			zap.String("telegram_id", telegramID),
			zap.Error(err))
		b.reply(message.Chat.ID, "Something went wrong, please try again later.")
		return
	}

	if message.IsCommand() {
		switch message.Command() {
		case "start", "help":
			b.handleStart(message)
		case "offer":
			b.handleOffer(ctx, message)
		case "find":
			b.handleFind(ctx, message)
		case "book":
			b.handleBook(ctx, message)
		case "mybookings":
			b.handleMyBookings(ctx, message, user)
		case "cancel":
			b.handleCancel(ctx, message)
		default:
			b.reply(message.Chat.ID, "Unknown command. Use /help to see what I can do.")
		}
		return
	}

	session, err := b.sessions.Get(ctx, message.Chat.ID)
	if err != nil {
		b.log.Warn("Failed to load session", zap.Int64("chat_id", message.Chat.ID), zap.Error(err))
	}
	if session != nil {
		b.handleStep(ctx, message, session, user)
		return
	}

	b.reply(message.Chat.ID, "Use /help to see the available commands.")
}

func (b *Bot) handleStart(message *tgbotapi.Message) {
	text := `Welcome to the ride marketplace!

Commands:
/offer - Publish a ride as a driver
/find - Search for rides
/book - Book seats on a ride
/mybookings - Your bookings
/cancel - Abort the current action`

	b.reply(message.Chat.ID, text)
}

func (b *Bot) handleCancel(ctx context.Context, message *tgbotapi.Message) {
	if err := b.sessions.Delete(ctx, message.Chat.ID); err != nil {
		b.log.Warn("Failed to clear session", zap.Int64("chat_id", message.Chat.ID), zap.Error(err))
	}
	b.reply(message.Chat.ID, "Cancelled.")
}

func (b *Bot) handleOffer(ctx context.Context, message *tgbotapi.Message) {
	b.putSession(ctx, message.Chat.ID, &Session{Step: StepOfferOrigin})
	b.reply(message.Chat.ID, "Where does the ride start?")
}

func (b *Bot) handleFind(ctx context.Context, message *tgbotapi.Message) {
	b.putSession(ctx, message.Chat.ID, &Session{Step: StepFindOrigin})
	b.reply(message.Chat.ID, "Where are you leaving from? Send - to skip.")
}

func (b *Bot) handleBook(ctx context.Context, message *tgbotapi.Message) {
	b.putSession(ctx, message.Chat.ID, &Session{Step: StepBookRide})
	b.reply(message.Chat.ID, "Send the ride ID you want to book.")
}

func (b *Bot) handleStep(ctx context.Context, message *tgbotapi.Message, session *Session, user *entity.User) {
	text := strings.TrimSpace(message.Text)

	switch session.Step {
	case StepOfferOrigin:
		session.Origin = text
		session.Step = StepOfferDestination
		b.putSession(ctx, message.Chat.ID, session)
		b.reply(message.Chat.ID, "Where does the ride end?")

	case StepOfferDestination:
		session.Destination = text
		session.Step = StepOfferDeparture
		b.putSession(ctx, message.Chat.ID, session)
		b.reply(message.Chat.ID, "When do you leave? Format: 2026-01-31 15:00")

	case StepOfferDeparture:
		departure, err := time.Parse(departureLayout, text)
		if err != nil {
			b.reply(message.Chat.ID, "I could not read that. Format: 2026-01-31 15:00")
			return
		}
		session.Departure = departure
		session.Step = StepOfferSeats
		b.putSession(ctx, message.Chat.ID, session)
		b.reply(message.Chat.ID, "How many seats are available?")

	case StepOfferSeats:
		seats, err := strconv.Atoi(text)
		if err != nil || seats < 1 {
			b.reply(message.Chat.ID, "Send a whole number of seats, at least 1.")
			return
		}
		session.Seats = seats
		session.Step = StepOfferPrice
		b.putSession(ctx, message.Chat.ID, session)
		b.reply(message.Chat.ID, "Price per seat in TON?")

	case StepOfferPrice:
		price, err := strconv.ParseFloat(text, 64)
		if err != nil || price <= 0 {
			b.reply(message.Chat.ID, "Send a positive price, e.g. 5.5")
			return
		}
		session.Price = price
		b.finishOffer(ctx, message, session, user)

	case StepFindOrigin:
		if text != "-" {
			session.Origin = text
		}
		session.Step = StepFindDestination
		b.putSession(ctx, message.Chat.ID, session)
		b.reply(message.Chat.ID, "Where are you going? Send - to skip.")

	case StepFindDestination:
		if text != "-" {
			session.Destination = text
		}
		session.Step = StepFindDate
		b.putSession(ctx, message.Chat.ID, session)
		b.reply(message.Chat.ID, "Which date? Format: 2026-01-31, or - for any.")

	case StepFindDate:
		if text != "-" {
			date, err := time.Parse("2006-01-02", text)
			if err != nil {
				b.reply(message.Chat.ID, "I could not read that date. Format: 2026-01-31, or - for any.")
				return
			}
			session.Departure = date
		}
		b.finishFind(ctx, message, session)

	case StepBookRide:
		session.RideID = text
		session.Step = StepBookSeats
		b.putSession(ctx, message.Chat.ID, session)
		b.reply(message.Chat.ID, "How many seats?")

	case StepBookSeats:
		seats, err := strconv.Atoi(text)
		if err != nil || seats < 1 {
			b.reply(message.Chat.ID, "Send a whole number of seats, at least 1.")
			return
		}
		session.Seats = seats
		b.finishBook(ctx, message, session, user)

	default:
		b.clearSession(ctx, message.Chat.ID)
		b.reply(message.Chat.ID, "Use /help to see the available commands.")
	}
}

func (b *Bot) finishOffer(ctx context.Context, message *tgbotapi.Message, session *Session, user *entity.User) {
	defer b.clearSession(ctx, message.Chat.ID)

	// Chat users are registered as passengers, so widen the role before
	// the first offer.
	if !user.Role.CanDrive() {
		role := string(entity.RoleBoth)
		if _, err := b.service.User.UpdateProfile(ctx, user.ID.String(), &request.UpdateProfileRequest{Role: &role}); err != nil {
			b.log.Error("Failed to upgrade role", zap.String("user_id", user.ID.String()), zap.Error(err))
			b.reply(message.Chat.ID, "Something went wrong, please try again later.")
			return
		}
	}

	req := &request.CreateRideRequest{
		Origin:         session.Origin,
		Destination:    session.Destination,
		DepartureTime:  session.Departure,
		AvailableSeats: session.Seats,
		PricePerSeat:   session.Price,
	}

	ride, err := b.service.Ride.CreateRide(ctx, user.ID.String(), req)
	if err != nil {
		b.replyError(message.Chat.ID, err)
		return
	}

	b.reply(message.Chat.ID, fmt.Sprintf(
		"Ride published!\n%s -> %s\nDeparture: %s\nSeats: %d, %.2f TON each\nRide ID: %s",
		ride.Origin, ride.Destination,
		ride.DepartureTime.Format(departureLayout),
		ride.AvailableSeats, ride.PricePerSeat, ride.ID,
	))
}

func (b *Bot) finishFind(ctx context.Context, message *tgbotapi.Message, session *Session) {
	defer b.clearSession(ctx, message.Chat.ID)

	filter := repository.RideFilter{
		Origin:      session.Origin,
		Destination: session.Destination,
	}
	if !session.Departure.IsZero() {
		date := session.Departure
		filter.DateFrom = &date
	}

	rides, err := b.service.Ride.SearchRides(ctx, filter, &request.PaginatedRequest{Limit: 5})
	if err != nil {
		b.replyError(message.Chat.ID, err)
		return
	}

	if len(rides) == 0 {
		b.reply(message.Chat.ID, "No rides found. Try different criteria with /find.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Rides found:\n")
	for _, ride := range rides {
		fmt.Fprintf(&sb, "\n%s -> %s\n%s, %d seats, %.2f TON each\nID: %s\n",
			ride.Origin, ride.Destination,
			ride.DepartureTime.Format(departureLayout),
			ride.AvailableSeats, ride.PricePerSeat, ride.ID)
	}
	sb.WriteString("\nBook with /book")
	b.reply(message.Chat.ID, sb.String())
}

func (b *Bot) finishBook(ctx context.Context, message *tgbotapi.Message, session *Session, user *entity.User) {
	defer b.clearSession(ctx, message.Chat.ID)

	req := &request.CreateBookingRequest{
		RideID:      session.RideID,
		SeatsBooked: session.Seats,
	}

	booking, err := b.service.Booking.CreateBooking(ctx, user.ID.String(), req)
	if err != nil {
		b.replyError(message.Chat.ID, err)
		return
	}

	text := fmt.Sprintf("Booked %d seat(s)!\nBooking ID: %s\nStatus: %s",
		booking.SeatsBooked, booking.ID, booking.Status)
	if booking.DepositAddress != "" {
		text += fmt.Sprintf("\n\nSend %.2f TON to:\n%s", booking.AmountToPay, booking.DepositAddress)
	}
	b.reply(message.Chat.ID, text)
}

func (b *Bot) handleMyBookings(ctx context.Context, message *tgbotapi.Message, user *entity.User) {
	page, err := b.service.Booking.ListPassengerBookings(ctx, user.ID.String(), &request.PaginatedRequest{Limit: 10})
	if err != nil {
		b.replyError(message.Chat.ID, err)
		return
	}

	if len(page.Data) == 0 {
		b.reply(message.Chat.ID, "You have no bookings yet. Find a ride with /find.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Your bookings:\n")
	for _, booking := range page.Data {
		fmt.Fprintf(&sb, "\n%d seat(s), status %s, payment %s\nID: %s\n",
			booking.SeatsBooked, booking.Status, booking.PaymentStatus, booking.ID)
		if booking.Ride != nil {
			fmt.Fprintf(&sb, "%s -> %s at %s\n",
				booking.Ride.Origin, booking.Ride.Destination,
				booking.Ride.DepartureTime.Format(departureLayout))
		}
	}
	b.reply(message.Chat.ID, sb.String())
}

// replyError turns domain errors into chat-friendly messages, hiding
// internal ones.
func (b *Bot) replyError(chatID int64, err error) {
	if apperr.KindOf(err) == apperr.KindInternal {
		b.log.Error("Bot operation failed", zap.Int64("chat_id", chatID), zap.Error(err))
		b.reply(chatID, "Something went wrong, please try again later.")
		return
	}
	b.reply(chatID, err.Error())
}

func (b *Bot) putSession(ctx context.Context, chatID int64, session *Session) {
	if err := b.sessions.Put(ctx, chatID, session); err != nil {
		b.log.Warn("Failed to store session", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) clearSession(ctx context.Context, chatID int64) {
	if err := b.sessions.Delete(ctx, chatID); err != nil {
		b.log.Warn("Failed to clear session", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
