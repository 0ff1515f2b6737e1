package app

import (
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/capacity-dashboard-tui/internal/aggregate"
	"github.com/j-veylop/capacity-dashboard-tui/internal/export"
	"github.com/j-veylop/capacity-dashboard-tui/internal/logger"
	"github.com/j-veylop/capacity-dashboard-tui/internal/models"
	"github.com/j-veylop/capacity-dashboard-tui/internal/services"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second
)

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// loadInitialDataCmd hands the startup dataset and the saved selection to
// the model.
func loadInitialDataCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		saved, err := mgr.LastFilter()
		if err != nil {
			logger.Warn("failed to restore last filter", "error", err)
		}
		return InitialLoadMsg{
			Dataset:    mgr.Dataset(),
			Generation: mgr.Generation(),
			Saved:      saved,
		}
	}
}

// reloadCmd re-reads the data file.
func reloadCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		return ReloadDoneMsg{Error: mgr.Reload()}
	}
}

// saveFilterCmd persists a valid selection. Failures are only logged.
func saveFilterCmd(mgr *services.Manager, sel models.Selection) tea.Cmd {
	return func() tea.Msg {
		if err := mgr.SaveFilter(sel); err != nil {
			logger.Warn("failed to save filter", "error", err)
		}
		return nil
	}
}

// exportCmd writes view into dir in the background.
func exportCmd(mgr *services.Manager, dir string, msg ExportMsg, view []models.MetricRecord) tea.Cmd {
	return func() tea.Msg {
		var (
			prefix = export.RecordsPrefix
			rows   = len(view)
			write  = func(w io.Writer) error { return export.WriteRecords(w, view) }
		)
		if msg.Kind == ExportCombinations {
			combos := aggregate.Combinations(view, msg.Sort, msg.Ascending)
			prefix = export.CombinationsPrefix
			rows = len(combos)
			write = func(w io.Writer) error { return export.WriteCombinations(w, combos) }
		}

		path, err := export.ToFile(dir, prefix, time.Now(), write)
		if err != nil {
			return ExportResultMsg{Kind: msg.Kind, Error: err}
		}
		if mgr != nil {
			mgr.RecordExport(path)
		}
		return ExportResultMsg{Kind: msg.Kind, Path: path, Rows: rows}
	}
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

func notifyCmd(notifType NotificationType, message string, duration time.Duration) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     notifType,
			Message:  message,
			Duration: duration,
		}
	}
}

func notifySuccessCmd(message string) tea.Cmd {
	return notifyCmd(NotificationSuccess, message, DefaultNotificationDuration)
}

func notifyErrorCmd(message string) tea.Cmd {
	return notifyCmd(NotificationError, message, LongNotificationDuration)
}

func notifyWarningCmd(message string) tea.Cmd {
	return notifyCmd(NotificationWarning, message, DefaultNotificationDuration)
}

func notifyInfoCmd(message string) tea.Cmd {
	return notifyCmd(NotificationInfo, message, QuickNotificationDuration)
}

// ChangeFilter returns a command that asks the root model to apply sel.
func ChangeFilter(sel models.Selection) tea.Cmd {
	return func() tea.Msg {
		return FilterChangedMsg{Selection: sel}
	}
}

// RequestExport returns a command that asks the root model to export.
func RequestExport(msg ExportMsg) tea.Cmd {
	return func() tea.Msg {
		return msg
	}
}

// Notify returns a command that shows a toast from a tab.
func Notify(notifType NotificationType, format string, args ...any) tea.Cmd {
	duration := DefaultNotificationDuration
	if notifType == NotificationError {
		duration = LongNotificationDuration
	}
	return notifyCmd(notifType, fmt.Sprintf(format, args...), duration)
}
