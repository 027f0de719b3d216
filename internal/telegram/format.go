package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"ukemeny/internal/metrics"
	"ukemeny/internal/planner"
	"ukemeny/internal/recipe"
	"ukemeny/internal/shopping"
)

var dayNames = [...]string{"Mandag", "Tirsdag", "Onsdag", "Torsdag", "Fredag", "Lørdag", "Søndag"}

func dayName(day int) string {
	if day < 1 || day > len(dayNames) {
		return fmt.Sprintf("Dag %d", day)
	}
	return dayNames[day-1]
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

func formatMenuMarkdown(view *planner.MenuView) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 *Ukemeny fra %s*\n\n", view.WeekStartDate)
	for _, d := range view.Dinners {
		fmt.Fprintf(&sb, "*%s*: %s", dayName(d.DayOfWeek), escape(d.RecipeName))
		if d.Locked {
			sb.WriteString(" 🔒")
		}
		sb.WriteString("\n")
		if d.Note != "" {
			fmt.Fprintf(&sb, "_%s_\n", escape(d.Note))
		}
	}
	return sb.String()
}

func formatShoppingListMarkdown(list *shopping.List) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🛒 *Handleliste for uken fra %s*\n", list.WeekStartDate)
	if len(list.Categories) == 0 {
		sb.WriteString("\n_Ingenting å handle_\n")
	}
	for _, group := range list.Categories {
		fmt.Fprintf(&sb, "\n*%s*\n", escape(group.CategoryName))
		for _, item := range group.Items {
			fmt.Fprintf(&sb, "• %s %s %s\n",
				recipe.FormatAmount(item.TotalAmount), escape(item.Unit), escape(item.IngredientName))
		}
	}
	return sb.String()
}

func formatHealthMarkdown(h metrics.SysHealth) string {
	var sb strings.Builder
	sb.WriteString("📊 *Status*\n\n")
	fmt.Fprintf(&sb, "• Database: %s\n", escape(h.Database))
	if c := h.Catalog; c != nil {
		fmt.Fprintf(&sb, "• Oppskrifter: %d\n", c.Recipes)
		fmt.Fprintf(&sb, "• Ingredienser: %d (%d ubrukte)\n", c.Ingredients, c.UnusedIngredients)
		fmt.Fprintf(&sb, "• Ukemenyer: %d\n", c.WeeklyMenus)
	}
	sb.WriteString("\n🧠 *System*\n")
	fmt.Fprintf(&sb, "• RAM: %dMB (Alloc) / %dMB (Sys)\n", h.AllocMB, h.SysMB)
	fmt.Fprintf(&sb, "• Goroutines: %d\n", h.Goroutines)
	fmt.Fprintf(&sb, "• Disk Data: %s\n", h.DataDiskSize)
	return sb.String()
}
