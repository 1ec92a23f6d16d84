package domain

// Button is one selectable option of a rendered screen.
type Button struct {
	Label  string
	Action Action
}

// View is the render instruction handed to the transport collaborator:
// a text plus an ordered list of buttons. Edit tells the transport to
// edit the existing message in place (button-press events) instead of
// sending a new one (commands and text).
type View struct {
	Text    string
	Buttons []Button
	Edit    bool
}

// WithNotice prepends an informational line to the view text, used when
// a flow commits or fails and the next screen carries the confirmation.
func (v View) WithNotice(notice string) View {
	if notice == "" {
		return v
	}
	v.Text = notice + "\n\n" + v.Text
	return v
}
