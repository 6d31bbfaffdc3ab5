// Package app is the root bubbletea model: the navigation shell around the
// five dashboard pages.
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/germanamz/terrarium/cmd/terrarium/internal/bridge"
	"github.com/germanamz/terrarium/cmd/terrarium/internal/msgs"
	"github.com/germanamz/terrarium/cmd/terrarium/internal/styles"
	"github.com/germanamz/terrarium/cmd/terrarium/internal/views"
	"github.com/germanamz/terrarium/pkg/api"
	"github.com/germanamz/terrarium/pkg/events"
	"github.com/germanamz/terrarium/pkg/notify"
	"github.com/germanamz/terrarium/pkg/pages"
	"github.com/germanamz/terrarium/pkg/poller"
	"go.uber.org/zap"
)

// Page identifies one screen of the shell.
type Page int

const (
	PageDashboard Page = iota
	PageRelays
	PageAutomation
	PageHistory
	PageSystem
)

var allPages = []Page{PageDashboard, PageRelays, PageAutomation, PageHistory, PageSystem}

func (p Page) String() string {
	switch p {
	case PageDashboard:
		return "Dashboard"
	case PageRelays:
		return "Relays"
	case PageAutomation:
		return "Automation"
	case PageHistory:
		return "History"
	case PageSystem:
		return "System"
	default:
		return "?"
	}
}

// Action names carried by msgs.ActionDoneMsg.
const (
	actionMode      = "mode"
	actionAllOff    = "all_off"
	actionToggle    = "toggle"
	actionLoadAuto  = "load_automation"
	actionConfig    = "save_config"
	actionSchedule  = "schedule"
	actionLoadHist  = "load_history"
	actionLoadLogs  = "load_logs"
	actionDismissed = "dismissed"
)

// Services are the long-lived collaborators the shell drives.
type Services struct {
	Sync       *poller.Synchronizer
	Notify     *notify.Emitter
	Events     *events.Bus
	Dashboard  *pages.Dashboard
	Relays     *pages.Relays
	Automation *pages.Automation
	History    *pages.History
	System     *pages.System
	Log        *zap.SugaredLogger
}

// Model is the root bubbletea model.
type Model struct {
	ctx  context.Context
	svc  Services
	keys keyMap

	help    help.Model
	spinner spinner.Model
	logs    table.Model

	page    Page
	visited map[Page]bool

	sensors *api.SensorCurrent
	relays  *api.RelayState
	status  *api.SystemStatus
	lastErr string
	toasts  []notify.Notification

	relayCursor    int
	scheduleCursor int

	form *form

	showHelp bool
	helpText string

	cancelBridge context.CancelFunc
	width        int
	height       int
}

// New creates the shell. Polled values start from whatever the synchronizer
// already holds.
func New(ctx context.Context, svc Services) Model {
	if svc.Log == nil {
		svc.Log = zap.NewNop().Sugar()
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.SpinnerStyle))

	logs := table.New(
		table.WithColumns(views.LogColumns()),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	m := Model{
		ctx:     ctx,
		svc:     svc,
		keys:    defaultKeys(),
		help:    help.New(),
		spinner: sp,
		logs:    logs,
		page:    PageDashboard,
		visited: map[Page]bool{PageDashboard: true},
	}
	m.resync()
	return m
}

// resync copies the polled values and the toast list from their owners.
func (m *Model) resync() {
	m.sensors = m.svc.Sync.Sensors.Get()
	m.relays = m.svc.Sync.Relays.Get()
	m.status = m.svc.Sync.Status.Get()
	m.lastErr = m.svc.Sync.LastError.Get()
	m.toasts = m.svc.Notify.Snapshot()
}

// Page returns the visible page.
func (m Model) Page() Page { return m.page }

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.logs.SetWidth(msg.Width)
		m.logs.SetHeight(max(msg.Height-16, 5))
		if m.showHelp {
			m.helpText = views.RenderHelp(m.width - 4)
		}
		return m, nil

	case msgs.ProgramReadyMsg:
		// The bridge is subscribed once Start returns; anything applied
		// before that is only visible in the owners' state.
		m.cancelBridge = bridge.Start(m.ctx, msg.Program, m.svc.Events)
		m.resync()
		return m, nil

	case msgs.SensorsMsg:
		m.sensors = msg.Data
		return m, nil

	case msgs.RelaysMsg:
		m.relays = msg.Data
		return m, nil

	case msgs.StatusMsg:
		m.status = msg.Data
		return m, nil

	case msgs.ConnectivityMsg:
		m.lastErr = msg.Err
		return m, nil

	case msgs.NotificationsMsg:
		m.toasts = msg.List
		return m, nil

	case msgs.ActionDoneMsg:
		m.afterAction(msg.Action)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) afterAction(action string) {
	switch action {
	case actionLoadLogs:
		m.logs.SetRows(views.LogRows(m.svc.System.Logs.Get()))
	case actionLoadAuto, actionSchedule:
		n := len(m.svc.Automation.Schedules.Get())
		m.scheduleCursor = min(m.scheduleCursor, max(n-1, 0))
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.cancelBridge != nil {
			m.cancelBridge()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		if m.showHelp && m.helpText == "" {
			m.helpText = views.RenderHelp(m.width - 4)
		}
		return m, nil

	case m.showHelp && key.Matches(msg, m.keys.Cancel):
		m.showHelp = false
		return m, nil

	case key.Matches(msg, m.keys.Next):
		return m.navigate(allPages[(int(m.page)+1)%len(allPages)])

	case key.Matches(msg, m.keys.Prev):
		return m.navigate(allPages[(int(m.page)+len(allPages)-1)%len(allPages)])

	case key.Matches(msg, m.keys.Dismiss):
		if len(m.toasts) == 0 {
			return m, nil
		}
		id := m.toasts[0].ID
		m.toasts = m.toasts[1:]
		return m, m.do(actionDismissed, func(context.Context) { m.svc.Notify.Remove(id) })
	}

	for i, b := range m.keys.Pages {
		if key.Matches(msg, b) {
			return m.navigate(allPages[i])
		}
	}

	switch m.page {
	case PageDashboard:
		return m.dashboardKey(msg)
	case PageRelays:
		return m.relaysKey(msg)
	case PageAutomation:
		return m.automationKey(msg)
	case PageHistory:
		return m.historyKey(msg)
	case PageSystem:
		return m.systemKey(msg)
	}

	return m, nil
}

// navigate shows p, loading its data on the first visit.
func (m Model) navigate(p Page) (tea.Model, tea.Cmd) {
	m.page = p
	m.showHelp = false

	if m.visited[p] {
		return m, nil
	}

	visited := make(map[Page]bool, len(m.visited)+1)
	for k, v := range m.visited {
		visited[k] = v
	}
	visited[p] = true
	m.visited = visited

	return m, m.load(p)
}

// load fetches the page-local data of p.
func (m Model) load(p Page) tea.Cmd {
	switch p {
	case PageAutomation:
		return m.do(actionLoadAuto, m.svc.Automation.Load)
	case PageHistory:
		return m.do(actionLoadHist, m.svc.History.Load)
	case PageSystem:
		return m.do(actionLoadLogs, func(ctx context.Context) {
			m.svc.System.Reset()
			m.svc.System.LoadLogs(ctx)
		})
	}
	return nil
}

// do runs fn off the UI goroutine and reports completion.
func (m Model) do(action string, fn func(ctx context.Context)) tea.Cmd {
	ctx := m.ctx
	log := m.svc.Log
	return func() tea.Msg {
		log.Debugw("action_started", "action", action)
		fn(ctx)
		return msgs.ActionDoneMsg{Action: action}
	}
}

// mode is the controller's operating mode from the system status, or from
// the sensor snapshot until the first status arrives.
func (m Model) mode() api.Mode {
	if m.status != nil && m.status.Mode != "" {
		return m.status.Mode
	}
	if m.sensors != nil {
		return m.sensors.Mode
	}
	return ""
}

func (m Model) dashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.svc.Dashboard
	switch {
	case key.Matches(msg, m.keys.Auto) && m.mode() != api.ModeAuto:
		return m, m.do(actionMode, func(ctx context.Context) { d.SetMode(ctx, api.ModeAuto) })
	case key.Matches(msg, m.keys.Manual) && m.mode() != api.ModeManual:
		return m, m.do(actionMode, func(ctx context.Context) { d.SetMode(ctx, api.ModeManual) })
	case key.Matches(msg, m.keys.AllOff):
		return m, m.do(actionAllOff, d.AllOff)
	}
	return m, nil
}

func (m Model) relaysKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	r := m.svc.Relays
	id := api.RelayIDs[m.relayCursor]

	switch {
	case key.Matches(msg, m.keys.Up):
		m.relayCursor = max(m.relayCursor-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.relayCursor = min(m.relayCursor+1, len(api.RelayIDs)-1)
	case key.Matches(msg, m.keys.On) && r.CanToggle(m.mode(), m.relays, id, true):
		return m, m.do(actionToggle, func(ctx context.Context) { r.Toggle(ctx, id, true) })
	case key.Matches(msg, m.keys.Off) && r.CanToggle(m.mode(), m.relays, id, false):
		return m, m.do(actionToggle, func(ctx context.Context) { r.Toggle(ctx, id, false) })
	case key.Matches(msg, m.keys.Manual) && m.mode() != api.ModeManual:
		return m, m.do(actionMode, r.SwitchToManual)
	}
	return m, nil
}

func (m Model) automationKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := m.svc.Automation
	schedules := a.Schedules.Get()

	switch {
	case key.Matches(msg, m.keys.Up):
		m.scheduleCursor = max(m.scheduleCursor-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.scheduleCursor = max(min(m.scheduleCursor+1, len(schedules)-1), 0)
	case key.Matches(msg, m.keys.Refresh):
		return m, m.load(PageAutomation)
	case key.Matches(msg, m.keys.Edit):
		cfg := a.Config.Get()
		if cfg == nil || a.Saving.Get() {
			return m, nil
		}
		return m.openForm(newConfigForm(*cfg))
	case key.Matches(msg, m.keys.NewSchedule):
		return m.openForm(newScheduleForm(pages.DefaultSchedule()))
	case key.Matches(msg, m.keys.Pause) && m.scheduleCursor < len(schedules):
		s := schedules[m.scheduleCursor]
		return m, m.do(actionSchedule, func(ctx context.Context) { a.SetScheduleActive(ctx, s, !s.IsActive) })
	case key.Matches(msg, m.keys.Delete) && m.scheduleCursor < len(schedules):
		return m.openForm(newDeleteForm(schedules[m.scheduleCursor]))
	}
	return m, nil
}

func (m Model) historyKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	h := m.svc.History
	cur := 0
	for i, r := range pages.Ranges {
		if r == h.Range.Get() {
			cur = i
		}
	}

	next := cur
	switch {
	case key.Matches(msg, m.keys.RangePrev):
		next = max(cur-1, 0)
	case key.Matches(msg, m.keys.RangeNext):
		next = min(cur+1, len(pages.Ranges)-1)
	case key.Matches(msg, m.keys.Refresh):
		return m, m.load(PageHistory)
	}

	if next == cur {
		return m, nil
	}
	r := pages.Ranges[next]
	return m, m.do(actionLoadHist, func(ctx context.Context) { h.SetRange(ctx, r) })
}

func (m Model) systemKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.svc.System
	switch {
	case key.Matches(msg, m.keys.More) && s.HasMore() && !s.LogsLoading.Get():
		return m, m.do(actionLoadLogs, s.LoadMore)
	case key.Matches(msg, m.keys.Refresh):
		return m, m.load(PageSystem)
	}

	var cmd tea.Cmd
	m.logs, cmd = m.logs.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	parts := []string{m.header(), ""}

	switch {
	case m.form != nil:
		parts = append(parts, m.form.view())
	case m.showHelp:
		parts = append(parts, m.helpText)
	default:
		parts = append(parts, m.body())
	}

	if toasts := views.Toasts(m.toasts, m.width); toasts != "" {
		parts = append(parts, "", toasts)
	}

	parts = append(parts, "", m.help.View(m.keys.forPage(m.page)))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) header() string {
	tabs := make([]string, 0, len(allPages))
	for i, p := range allPages {
		label := fmt.Sprintf("%d %s", i+1, p)
		if p == m.page {
			tabs = append(tabs, styles.ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, styles.TabStyle.Render(label))
		}
	}

	return strings.Join([]string{
		styles.TitleStyle.Render("🦎 terrarium"),
		strings.Join(tabs, ""),
		views.ModeBadge(m.mode()),
		m.connectivity(),
	}, "  ")
}

func (m Model) connectivity() string {
	switch {
	case m.lastErr != "":
		return styles.OfflineStyle.Render("● " + m.lastErr)
	case m.sensors != nil:
		return styles.OnlineStyle.Render("● online")
	default:
		return styles.DimStyle.Render("○ connecting")
	}
}

func (m Model) body() string {
	sp := m.spinner.View()

	switch m.page {
	case PageRelays:
		r := m.svc.Relays
		mode := m.mode()
		return views.Relays(views.RelaysData{
			Relays:    m.relays,
			Mode:      mode,
			Cursor:    m.relayCursor,
			Switching: r.Switching.Get(),
			Can: func(id api.RelayID, target bool) bool {
				return r.CanToggle(mode, m.relays, id, target)
			},
		})

	case PageAutomation:
		a := m.svc.Automation
		return views.Automation(views.AutomationData{
			Config:           a.Config.Get(),
			ConfigLoading:    a.ConfigLoading.Get(),
			Saving:           a.Saving.Get(),
			Schedules:        a.Schedules.Get(),
			SchedulesLoading: a.SchedulesLoading.Get(),
			Cursor:           m.scheduleCursor,
			Spinner:          sp,
		})

	case PageHistory:
		h := m.svc.History
		return views.History(views.HistoryData{
			Range:         h.Range.Get(),
			Records:       h.Records.Get(),
			Loading:       h.Loading.Get(),
			Energy:        h.Energy.Get(),
			EnergyLoading: h.EnergyLoading.Get(),
			Spinner:       sp,
		}, m.width)

	case PageSystem:
		s := m.svc.System
		return views.System(views.SystemData{
			Status:      m.status,
			LogTable:    m.logs.View(),
			LogCount:    len(s.Logs.Get()),
			LogsLoading: s.LogsLoading.Get(),
			HasMore:     s.HasMore(),
			Spinner:     sp,
		})

	default:
		return views.Dashboard(views.DashboardData{
			Sensors: m.sensors,
			Relays:  m.relays,
			Mode:    m.mode(),
			Loading: m.svc.Sync.Loading.Get(),
			Spinner: sp,
		}, m.width)
	}
}

// openForm shows f in place of the page body.
func (m Model) openForm(f *form) (tea.Model, tea.Cmd) {
	m.form = f
	if m.width > 0 {
		f.huh.WithWidth(min(m.width, 72))
	}
	return m, f.huh.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, m.keys.Cancel) {
		m.form = nil
		return m, nil
	}

	updated, cmd := m.form.huh.Update(msg)
	if hf, ok := updated.(*huh.Form); ok {
		m.form.huh = hf
	}

	switch m.form.huh.State {
	case huh.StateAborted:
		m.form = nil
		return m, nil
	case huh.StateCompleted:
		f := m.form
		m.form = nil
		next, submit := f.submit(m)
		if next != nil {
			return m.openForm(next)
		}
		return m, submit
	}

	return m, cmd
}
