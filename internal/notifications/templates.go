package notifications

import (
	"bytes"
	"fmt"
	"text/template"

	"laptoploan/pkg/model"
)

const signature = "헤이븐 아카데믹팀"

var templates = template.Must(template.New("mail").Parse(`
{{define "submitted"}}안녕하세요! {{.Name}}님!
{{.Date}} 노트북 신청이 확인되었습니다.
{{.Pickup}}에 오피스 옆 로비에서 노트북을 수령해주시면 되겠습니다!
{{.Return}}까지 노트북 대여한 곳에 반납해주시면 됩니다.

감사합니다.

{{.Signature}}{{end}}

{{define "approved"}}안녕하세요! {{.Name}}님!
{{.Date}} {{.Slot}} 노트북 대여 신청이 승인되었습니다.
{{.Pickup}}에 오피스 옆 로비에서 노트북을 수령해주세요.
{{.Return}}까지 반납 부탁드립니다.

감사합니다.

{{.Signature}}{{end}}

{{define "rejected"}}안녕하세요! {{.Name}}님.
{{.Date}} {{.Slot}} 노트북 대여 신청이 거절되었습니다.
사유: {{.Reason}}

문의 사항은 아카데믹팀으로 연락해주세요.

{{.Signature}}{{end}}

{{define "overdue"}}안녕하세요! {{.Name}}님.
대여하신 노트북의 반납 기한이 지났습니다. 현재 연체일은 총 {{.Days}}일입니다.
{{range .Dates}}- {{.}}
{{end}}
연체일이 남아 있는 동안에는 새로운 대여 신청을 할 수 없습니다.
빠른 시일 내에 반납해주세요.

{{.Signature}}{{end}}

{{define "contact"}}이름: {{.Name}}
이메일: {{.Email}}

{{.Message}}{{end}}
`))

type reservationMail struct {
	Name      string
	Date      string
	Slot      string
	Pickup    string
	Return    string
	Reason    string
	Signature string
}

type overdueMail struct {
	Name      string
	Days      int
	Dates     []string
	Signature string
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s mail: %w", name, err)
	}
	return buf.String(), nil
}

// slotLabel is the Korean name of a slot.
func slotLabel(slot model.TimeSlot) string {
	if slot == model.Afternoon {
		return "오후"
	}
	return "오전"
}

// pickupAndReturn gives the pickup and return wording for a slot.
func pickupAndReturn(slot model.TimeSlot) (string, string) {
	if slot == model.Afternoon {
		return "점심시간", "클로징 후"
	}
	return "오프닝 전", "점심시간"
}

func newReservationMail(r *model.Reservation) reservationMail {
	pickup, ret := pickupAndReturn(r.TimeSlot)
	return reservationMail{
		Name:      r.Name,
		Date:      r.Date,
		Slot:      slotLabel(r.TimeSlot),
		Pickup:    pickup,
		Return:    ret,
		Reason:    r.RejectReason,
		Signature: signature,
	}
}
