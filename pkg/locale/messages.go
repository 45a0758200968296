package locale

// Message keys. Korean text is the canonical wording shown to students.
const (
	KeyRegisterMissingFields = "register.missing_fields"
	KeyRegisterDuplicate     = "register.duplicate"
	KeyRegisterInvalidEmail  = "register.invalid_email"
	KeyRegistered            = "register.ok"

	KeyLoginMissingFields  = "login.missing_fields"
	KeyLoginUnknownStudent = "login.unknown_student"
	KeyLoginNameMismatch   = "login.name_mismatch"
	KeyAdminInvalidLogin   = "admin.invalid_credentials"
	KeyAdminLoginDisabled  = "admin.login_disabled"

	KeyBorrowMissingFields = "borrow.missing_fields"
	KeyBorrowInvalidDate   = "borrow.invalid_date"
	KeyBorrowInvalidSlot   = "borrow.invalid_slot"
	KeyBorrowPastDate      = "borrow.past_date"
	KeyBorrowOverdue       = "borrow.overdue"
	KeyBorrowSubmitted     = "borrow.submitted"

	KeyReservationNotFound  = "reservation.not_found"
	KeyReservationInvalidID = "reservation.invalid_id"
	KeyInvalidTransition    = "reservation.invalid_transition"
	KeyRejectReasonTooLong  = "reservation.reject_reason_too_long"
	KeyUserNotFound         = "user.not_found"

	KeyLoginRequired = "auth.login_required"
	KeyAdminRequired = "auth.admin_required"

	KeyLoginPageTitle      = "page.login.title"
	KeyAdminLoginPageTitle = "page.admin_login.title"
	KeyLabelName           = "page.label.name"
	KeyLabelStudentID      = "page.label.student_id"
	KeyLabelUsername       = "page.label.username"
	KeyLabelPassword       = "page.label.password"
	KeyLoginButton         = "page.button.login"

	KeyContactMissingFields = "contact.missing_fields"
	KeyContactInvalidEmail  = "contact.invalid_email"
	KeyContactSent          = "contact.sent"

	KeyPageNotFound         = "request.not_found"
	KeyInvalidBody          = "request.invalid_body"
	KeyInvalidQuery         = "request.invalid_query"
	KeyTooLarge             = "request.too_large"
	KeyRateLimited          = "request.rate_limited"
	KeyTimeout              = "request.timeout"
	KeyUnsupportedMediaType = "request.unsupported_media_type"
	KeyIdempotencyConflict  = "request.idempotency_conflict"
	KeyServerError          = "server.error"
)

var korean = map[string]string{
	KeyRegisterMissingFields: "이름, 학번, 이메일을 모두 입력해주세요.",
	KeyRegisterDuplicate:     "이미 등록된 학번입니다.",
	KeyRegisterInvalidEmail:  "올바른 이메일 주소를 입력해주세요.",
	KeyRegistered:            "회원가입이 완료되었습니다.",

	KeyLoginMissingFields:  "이름과 학번을 모두 입력해주세요.",
	KeyLoginUnknownStudent: "등록되지 않은 학번입니다.",
	KeyLoginNameMismatch:   "이름이 일치하지 않습니다.",
	KeyAdminInvalidLogin:   "관리자 아이디 또는 비밀번호가 올바르지 않습니다.",
	KeyAdminLoginDisabled:  "관리자 로그인이 설정되지 않았습니다.",

	KeyBorrowMissingFields: "날짜와 시간대를 선택해주세요.",
	KeyBorrowInvalidDate:   "날짜 형식이 올바르지 않습니다.",
	KeyBorrowInvalidSlot:   "시간대는 오전 또는 오후만 선택할 수 있습니다.",
	KeyBorrowPastDate:      "지난 날짜는 신청할 수 없습니다.",
	KeyBorrowOverdue:       "연체일이 %d일 있어 새로운 대여 신청을 할 수 없습니다.",
	KeyBorrowSubmitted:     "노트북 대여 신청이 접수되었습니다.",

	KeyReservationNotFound:  "신청 내역을 찾을 수 없습니다.",
	KeyReservationInvalidID: "잘못된 신청 번호입니다.",
	KeyInvalidTransition:    "현재 상태에서는 처리할 수 없는 요청입니다.",
	KeyRejectReasonTooLong:  "거절 사유는 500자 이내로 입력해주세요.",
	KeyUserNotFound:         "해당 학번의 사용자를 찾을 수 없습니다.",

	KeyLoginRequired: "로그인이 필요합니다.",
	KeyAdminRequired: "관리자만 접근할 수 있습니다.",

	KeyLoginPageTitle:      "노트북 대여 로그인",
	KeyAdminLoginPageTitle: "관리자 로그인",
	KeyLabelName:           "이름",
	KeyLabelStudentID:      "학번",
	KeyLabelUsername:       "아이디",
	KeyLabelPassword:       "비밀번호",
	KeyLoginButton:         "로그인",

	KeyContactMissingFields: "이름, 이메일, 문의 내용을 모두 입력해주세요.",
	KeyContactInvalidEmail:  "올바른 이메일 주소를 입력해주세요.",
	KeyContactSent:          "문의가 접수되었습니다.",

	KeyPageNotFound:         "페이지를 찾을 수 없습니다.",
	KeyInvalidBody:          "요청 형식이 올바르지 않습니다.",
	KeyInvalidQuery:         "요청 파라미터가 올바르지 않습니다.",
	KeyTooLarge:             "요청 크기가 너무 큽니다.",
	KeyRateLimited:          "요청이 너무 많습니다. 잠시 후 다시 시도해주세요.",
	KeyTimeout:              "요청 시간이 초과되었습니다.",
	KeyUnsupportedMediaType: "Content-Type은 application/json이어야 합니다.",
	KeyIdempotencyConflict:  "같은 요청이 이미 처리 중입니다.",
	KeyServerError:          "서버 오류",
}

var english = map[string]string{
	KeyRegisterMissingFields: "Please enter your name, student ID and email.",
	KeyRegisterDuplicate:     "This student ID is already registered.",
	KeyRegisterInvalidEmail:  "Please enter a valid email address.",
	KeyRegistered:            "Registration complete.",

	KeyLoginMissingFields:  "Please enter both your name and student ID.",
	KeyLoginUnknownStudent: "This student ID is not registered.",
	KeyLoginNameMismatch:   "The name does not match.",
	KeyAdminInvalidLogin:   "Invalid administrator username or password.",
	KeyAdminLoginDisabled:  "Administrator login is not configured.",

	KeyBorrowMissingFields: "Please choose a date and a time slot.",
	KeyBorrowInvalidDate:   "The date format is invalid.",
	KeyBorrowInvalidSlot:   "The time slot must be morning or afternoon.",
	KeyBorrowPastDate:      "You cannot request a date in the past.",
	KeyBorrowOverdue:       "You have %d overdue day(s) and cannot make a new request.",
	KeyBorrowSubmitted:     "Your laptop request has been submitted.",

	KeyReservationNotFound:  "Reservation not found.",
	KeyReservationInvalidID: "Invalid reservation ID.",
	KeyInvalidTransition:    "This action is not allowed in the reservation's current state.",
	KeyRejectReasonTooLong:  "The rejection reason must be at most 500 characters.",
	KeyUserNotFound:         "No user is registered with that student ID.",

	KeyLoginRequired: "Please log in first.",
	KeyAdminRequired: "Administrator access required.",

	KeyLoginPageTitle:      "Laptop loan login",
	KeyAdminLoginPageTitle: "Administrator login",
	KeyLabelName:           "Name",
	KeyLabelStudentID:      "Student ID",
	KeyLabelUsername:       "Username",
	KeyLabelPassword:       "Password",
	KeyLoginButton:         "Log in",

	KeyContactMissingFields: "Please enter your name, email and message.",
	KeyContactInvalidEmail:  "Please enter a valid email address.",
	KeyContactSent:          "Your message has been sent.",

	KeyPageNotFound:         "Page not found.",
	KeyInvalidBody:          "The request body is malformed.",
	KeyInvalidQuery:         "The request parameters are invalid.",
	KeyTooLarge:             "The request is too large.",
	KeyRateLimited:          "Too many requests. Please try again later.",
	KeyTimeout:              "The request timed out.",
	KeyUnsupportedMediaType: "Content-Type must be application/json.",
	KeyIdempotencyConflict:  "An identical request is already being processed.",
	KeyServerError:          "Server error",
}
