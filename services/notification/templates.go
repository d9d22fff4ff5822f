package notification

import (
	"fmt"
	"strings"
	"time"

	"reserva/models"
)

// messageContext carries everything a template needs.
type messageContext struct {
	FirstName    string
	ServiceLabel string
	ProviderName string
	ShopName     string
	SlotStart    time.Time
	CancelLink   string
}

func (c messageContext) date() string { return c.SlotStart.Format("02/01/2006") }
func (c messageContext) hour() string { return c.SlotStart.Format("15:04") }

func renderConfirmation(c messageContext) string {
	return fmt.Sprintf(
		"Olá %s! Seu agendamento de %s com %s está confirmado para %s às %s. ✅\n\nPara cancelar, acesse: %s",
		c.FirstName, c.ServiceLabel, c.ProviderName, c.date(), c.hour(), c.CancelLink,
	)
}

func renderCancellation(c messageContext) string {
	return fmt.Sprintf(
		"Olá %s, seu agendamento de %s do dia %s às %s foi cancelado. Esperamos te ver em breve na %s!",
		c.FirstName, c.ServiceLabel, c.date(), c.hour(), c.ShopName,
	)
}

func renderReminder(c messageContext) string {
	return fmt.Sprintf(
		"Olá %s! Lembrete: %s com %s amanhã, %s às %s. Até lá! 😉",
		c.FirstName, c.ServiceLabel, c.ProviderName, c.date(), c.hour(),
	)
}

func renderBirthday(shopName, firstName string) string {
	return fmt.Sprintf(
		"Feliz aniversário, %s! 🎉 A equipe da %s deseja um dia incrível. Passa aqui pra comemorar com a gente!",
		firstName, shopName,
	)
}

// renderBroadcast substitutes the {firstName} placeholder per recipient.
func renderBroadcast(template string, customer models.Customer) string {
	return strings.ReplaceAll(template, "{firstName}", customer.Identity.FirstName)
}
