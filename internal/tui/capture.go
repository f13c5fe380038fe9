package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tyss-project/adrivehelper/internal/misc"
)

// maxLogLines is how many recent log lines the screen keeps.
const maxLogLines = 8

type captureState int

const (
	stateWaiting captureState = iota
	statePasting
	stateDone
	stateFailed
)

// CaptureResult is the outcome of the capture flow, delivered to the screen when the interceptor returns.
type CaptureResult struct {
	Code string
	Path string
	Err  error
}

// CaptureOptions wires the screen to the running flow.
type CaptureOptions struct {
	AuthURL      string
	RedirectURI  string
	ExistingFile bool
	// Submit feeds a pasted callback address into the interceptor.
	Submit func(raw string) error
	// OpenURL launches the browser again.
	OpenURL func(url string) error
	// CopyText puts text on the clipboard.
	CopyText func(text string) error
	Hook     *LogHook
}

type submitDoneMsg struct {
	err error
}

type actionDoneMsg struct {
	action string // "open", "copy"
	err    error
}

type captureLogMsg LogLine

// CaptureModel is the bubbletea model of the waiting and acknowledgement screen.
type CaptureModel struct {
	opts   CaptureOptions
	state  captureState
	input  textinput.Model
	logs   []LogLine
	status string
	result CaptureResult

	acknowledged bool
	width        int
	ready        bool
}

// NewCaptureModel creates the screen in the waiting state.
func NewCaptureModel(opts CaptureOptions) CaptureModel {
	ti := textinput.New()
	ti.CharLimit = 2048
	ti.Placeholder = "https://openapi.alipan.com/oauth/authorize/callback?code=..."
	return CaptureModel{
		opts:  opts,
		state: stateWaiting,
		input: ti,
	}
}

func (m CaptureModel) Init() tea.Cmd {
	if m.opts.Hook != nil {
		return m.waitForLog
	}
	return nil
}

func (m CaptureModel) waitForLog() tea.Msg {
	line, ok := <-m.opts.Hook.Chan()
	if !ok {
		return nil
	}
	return captureLogMsg(line)
}

func (m CaptureModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.ready = true
		if m.width > 20 {
			m.input.Width = m.width - 20
		}
		return m, nil

	case CaptureResult:
		m.result = msg
		m.input.Blur()
		m.status = ""
		if msg.Code != "" && msg.Err == nil {
			m.state = stateDone
		} else {
			m.state = stateFailed
		}
		return m, nil

	case submitDoneMsg:
		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf(T("submit_fail"), msg.err.Error()))
			return m, nil
		}
		m.status = ""
		if m.state == statePasting {
			m.state = stateWaiting
			m.input.Blur()
			m.input.SetValue("")
		}
		return m, nil

	case actionDoneMsg:
		m.status = m.renderAction(msg)
		return m, nil

	case captureLogMsg:
		m.logs = append(m.logs, LogLine(msg))
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
		return m, m.waitForLog

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.state {
		case stateDone, stateFailed:
			switch msg.String() {
			case "enter", "q", "esc":
				m.acknowledged = true
				return m, tea.Quit
			}
			return m, nil
		case statePasting:
			return m.handlePasteInput(msg)
		default:
			return m.handleWaitingInput(msg)
		}
	}

	if m.state == statePasting {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m CaptureModel) handleWaitingInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "L":
		ToggleLocale()
		return m, nil
	case "o":
		if m.opts.OpenURL == nil {
			return m, nil
		}
		openURL, authURL := m.opts.OpenURL, m.opts.AuthURL
		return m, func() tea.Msg {
			return actionDoneMsg{action: "open", err: openURL(authURL)}
		}
	case "c":
		if m.opts.CopyText == nil {
			return m, nil
		}
		copyText, authURL := m.opts.CopyText, m.opts.AuthURL
		return m, func() tea.Msg {
			return actionDoneMsg{action: "copy", err: copyText(authURL)}
		}
	case "p":
		if m.opts.Submit == nil {
			return m, nil
		}
		m.state = statePasting
		m.status = ""
		m.input.Prompt = T("callback_url")
		m.input.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

func (m CaptureModel) handlePasteInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = stateWaiting
		m.status = ""
		m.input.Blur()
		m.input.SetValue("")
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		if value == "" {
			return m, nil
		}
		m.status = warningStyle.Render(T("submitting"))
		submit := m.opts.Submit
		return m, func() tea.Msg {
			return submitDoneMsg{err: submit(value)}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m CaptureModel) renderAction(msg actionDoneMsg) string {
	switch msg.action {
	case "open":
		if msg.err != nil {
			return errorStyle.Render(fmt.Sprintf(T("open_fail"), msg.err.Error()))
		}
		return successStyle.Render(T("opened"))
	case "copy":
		if msg.err != nil {
			return errorStyle.Render(fmt.Sprintf(T("copy_fail"), msg.err.Error()))
		}
		return successStyle.Render(T("copied"))
	}
	return ""
}

// Acknowledged reports whether the user dismissed the final notice, as opposed to quitting early.
func (m CaptureModel) Acknowledged() bool {
	return m.acknowledged
}

func (m CaptureModel) View() string {
	if !m.ready {
		return T("initializing_tui")
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(T("title")))
	sb.WriteString("\n")

	switch m.state {
	case stateDone:
		sb.WriteString(noticeStyle.Render(misc.SuccessNotice()))
		sb.WriteString("\n")
		if m.result.Path != "" {
			sb.WriteString(valueStyle.Render(fmt.Sprintf(T("saved_to"), m.result.Path)))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
		sb.WriteString(successStyle.Render(misc.PressEnterToExit))
		sb.WriteString("\n")
		sb.WriteString(helpStyle.Render(T("help_done")))
		return sb.String()
	case stateFailed:
		sb.WriteString(m.renderFailure())
		sb.WriteString("\n\n")
		sb.WriteString(helpStyle.Render(T("help_done")))
		return sb.String()
	}

	if m.opts.ExistingFile {
		sb.WriteString(warningStyle.Render(T("existing_file")))
		sb.WriteString("\n\n")
	}

	var section strings.Builder
	section.WriteString(T("auth_url"))
	section.WriteString("\n")
	section.WriteString(urlStyle.Render(m.opts.AuthURL))
	section.WriteString("\n\n")
	if m.opts.RedirectURI != "" {
		section.WriteString(fmt.Sprintf(T("redirect_uri"), m.opts.RedirectURI))
		section.WriteString("\n")
	}
	section.WriteString(helpStyle.Render(T("browser_hint")))
	sb.WriteString(sectionStyle.Render(section.String()))
	sb.WriteString("\n\n")

	if m.state == statePasting {
		sb.WriteString(helpStyle.Render(T("paste_hint")))
		sb.WriteString("\n")
		sb.WriteString(m.input.View())
		sb.WriteString("\n")
	} else {
		sb.WriteString(warningStyle.Render("⏳ " + T("waiting")))
		sb.WriteString("\n")
	}
	if m.status != "" {
		sb.WriteString(m.status)
		sb.WriteString("\n")
	}

	if len(m.logs) > 0 {
		sb.WriteString("\n")
		sb.WriteString(helpStyle.Render(T("recent_logs")))
		sb.WriteString("\n")
		for _, line := range m.logs {
			sb.WriteString("  ")
			sb.WriteString(logLevelStyle(line.Level).Render(line.Text))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	if m.state == statePasting {
		sb.WriteString(helpStyle.Render(T("help_paste")))
	} else {
		sb.WriteString(helpStyle.Render(T("help_waiting")))
	}
	return sb.String()
}

func (m CaptureModel) renderFailure() string {
	switch {
	case m.result.Code != "" && m.result.Err != nil:
		return errorStyle.Render(fmt.Sprintf(T("save_failed"), m.result.Err.Error()))
	case m.result.Err != nil:
		return errorStyle.Render(fmt.Sprintf(T("failed"), m.result.Err.Error()))
	default:
		return warningStyle.Render(T("cancelled"))
	}
}

// RunCapture shows the screen while flow runs and returns the flow's result together with
// whether the user acknowledged it. Quitting early cancels the context passed to flow.
// output specifies where bubbletea renders. If nil, defaults to os.Stdout.
func RunCapture(ctx context.Context, opts CaptureOptions, flow func(context.Context) CaptureResult, output io.Writer) (CaptureResult, bool, error) {
	if output == nil {
		output = os.Stdout
	}
	flowCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewCaptureModel(opts), tea.WithAltScreen(), tea.WithOutput(output))
	stop := context.AfterFunc(ctx, p.Quit)
	defer stop()

	done := make(chan CaptureResult, 1)
	go func() {
		result := flow(flowCtx)
		done <- result
		p.Send(result)
	}()

	final, err := p.Run()
	cancel()
	result := <-done

	acknowledged := false
	if model, ok := final.(CaptureModel); ok {
		acknowledged = model.Acknowledged()
	}
	return result, acknowledged, err
}
