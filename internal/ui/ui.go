package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"radar/internal/radar"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ScanView ViewState = iota
	ReleaseListView
	ConfirmView
	BuildView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       *radar.Engine
	scanOpts     radar.ScanOpts
	buildOpts    radar.BuildOpts
	width        int
	height       int
	releaseList  list.Model
	scan         *radar.ScanResult
	excluded     map[string]bool // release ID -> excluded from the batch
	progressChan chan radar.ProgressUpdate
	progress     radar.ProgressUpdate
	result       *radar.BuildResult
	err          error
	help         help.Model
	keys         keyMap
}

type scanCompleteMsg struct {
	scan *radar.ScanResult
	err  error
}

type progressUpdateMsg radar.ProgressUpdate

type buildCompleteMsg struct {
	result *radar.BuildResult
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, engine *radar.Engine, scanOpts radar.ScanOpts, buildOpts radar.BuildOpts) *Model {
	return &Model{
		ctx:       ctx,
		view:      ScanView,
		engine:    engine,
		scanOpts:  scanOpts,
		buildOpts: buildOpts,
		excluded:  map[string]bool{},
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init kicks off the release scan.
func (m *Model) Init() tea.Cmd {
	return m.startScan()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.releaseList.Width() == 0 {
			m.releaseList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ScanView, BuildView:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
		case ReleaseListView:
			return m.handleReleaseListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case scanCompleteMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.scan = msg.scan
		m.excluded = map[string]bool{}
		items := make([]list.Item, len(msg.scan.Releases))
		for i, release := range msg.scan.Releases {
			items[i] = releaseItem{release: release}
		}
		m.releaseList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.releaseList.Title = fmt.Sprintf("New releases (past %d days)", msg.scan.WindowDays)
		m.releaseList.SetSize(m.width-4, m.height-8)
		m.view = ReleaseListView
		return m, nil

	case progressUpdateMsg:
		m.progress = radar.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case buildCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	if m.view == ReleaseListView {
		var cmd tea.Cmd
		m.releaseList, cmd = m.releaseList.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case ScanView:
		return m.renderScan()
	case ReleaseListView:
		return m.renderReleaseList()
	case ConfirmView:
		return m.renderConfirm()
	case BuildView:
		return m.renderBuild()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleReleaseListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		index := m.releaseList.Index()
		selected := m.releaseList.SelectedItem()
		if item, ok := selected.(releaseItem); ok {
			item.excluded = !item.excluded
			m.excluded[item.release.ID] = item.excluded
			return m, m.releaseList.SetItem(index, item)
		}
	case "enter":
		if m.includedCount() == 0 {
			return m, nil
		}
		m.view = ConfirmView
		return m, nil
	case "r":
		m.view = ScanView
		m.scan = nil
		return m, m.startScan()
	}

	var cmd tea.Cmd
	m.releaseList, cmd = m.releaseList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = ReleaseListView
		return m, nil
	case "y":
		m.view = BuildView
		return m, m.startBuild()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = ScanView
		m.scan = nil
		m.result = nil
		m.err = nil
		return m, m.startScan()
	}
	return m, nil
}

func (m *Model) startScan() tea.Cmd {
	m.progressChan = make(chan radar.ProgressUpdate, 50)
	progress := m.progressChan

	done := make(chan scanCompleteMsg, 1)
	go func() {
		scan, err := m.engine.Scan(m.ctx, progress, m.scanOpts)
		done <- scanCompleteMsg{scan: scan, err: err}
		close(progress)
	}()

	return tea.Batch(m.waitForProgress(), func() tea.Msg { return <-done })
}

func (m *Model) startBuild() tea.Cmd {
	m.progressChan = make(chan radar.ProgressUpdate, 50)
	progress := m.progressChan
	included := m.includedScan()

	done := make(chan buildCompleteMsg, 1)
	go func() {
		result, err := m.engine.Build(m.ctx, progress, included, m.buildOpts)
		done <- buildCompleteMsg{result: result, err: err}
		close(progress)
	}()

	return tea.Batch(m.waitForProgress(), func() tea.Msg { return <-done })
}

func (m *Model) waitForProgress() tea.Cmd {
	progress := m.progressChan
	return func() tea.Msg {
		if progress == nil {
			return nil
		}

		update, ok := <-progress
		if !ok {
			return nil
		}
		return progressUpdateMsg(update)
	}
}

// includedScan returns a copy of the scan narrowed to releases still in the batch.
func (m *Model) includedScan() *radar.ScanResult {
	if m.scan == nil {
		return nil
	}

	included := *m.scan
	included.Releases = nil
	included.Tracks = nil

	for _, release := range m.scan.Releases {
		if !m.excluded[release.ID] {
			included.Releases = append(included.Releases, release)
		}
	}
	for _, track := range m.scan.Tracks {
		if !m.excluded[track.AlbumID] {
			included.Tracks = append(included.Tracks, track)
		}
	}

	return &included
}

func (m *Model) includedCount() int {
	if m.scan == nil {
		return 0
	}
	count := 0
	for _, release := range m.scan.Releases {
		if !m.excluded[release.ID] {
			count++
		}
	}
	return count
}

func (m *Model) renderScan() string {
	title := styles.title.Render("Scanning for new releases")
	return fmt.Sprintf("%s\n\n%s\n", title, m.progress.Message)
}

func (m *Model) renderReleaseList() string {
	if m.scan != nil && len(m.scan.Releases) == 0 {
		title := styles.warn.Render("No new releases found")
		helpView := m.help.ShortHelpView([]key.Binding{m.keys.restart, m.keys.quit})
		return fmt.Sprintf("%s\n\nNothing released in the past %d days.\n\n%s", title, m.scan.WindowDays, helpView)
	}

	helpKeys := []key.Binding{m.keys.toggle, m.keys.enter, m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.releaseList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	included := m.includedScan()
	uris, _ := radar.DedupURIs(included.Tracks)

	title := styles.title.Render("Create playlist from these releases?")
	info := fmt.Sprintf("\nReleases: %d\nTracks (deduplicated): %d\n", len(included.Releases), len(uris))

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderBuild() string {
	title := styles.title.Render("Building playlist")

	var phase string
	switch m.progress.Phase {
	case radar.CreatePlaylist:
		phase = "Creating playlist on Spotify..."
	case radar.AddTracks:
		phase = fmt.Sprintf("Adding tracks (batch %d/%d)", m.progress.Step, m.progress.Total)
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Build failed: %v\n\nPress r to rescan, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to rescan, q to quit")
	}

	title := styles.ok.Render("✓ Playlist created!")
	info := fmt.Sprintf(
		"\nPlaylist: %s\nTracks: %d\nURL: %s",
		m.result.Playlist.Name,
		m.result.Playlist.TrackCount,
		m.result.Playlist.URL,
	)

	var dropped string
	if m.result.Dropped > 0 {
		dropped = fmt.Sprintf("\n%s", styles.warn.Render(fmt.Sprintf("%d duplicate track(s) removed", m.result.Dropped)))
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, dropped, helpView)
}
