package views

import "github.com/a-h/templ"

const (
	DashboardTitle    = "대시보드"
	DashboardNote     = "요약 위젯 로딩 최적화 버전"
	PackagesTitle     = "패키지 관리"
	PackagesNote      = "목록/폼은 필요 시 로드"
	ReservationsTitle = "예약 관리"
	ReservationsNote  = "리스트는 필요 시 로드"
)

func Dashboard() templ.Component {
	return section(DashboardTitle, DashboardNote)
}

func Packages() templ.Component {
	return section(PackagesTitle, PackagesNote)
}

func Reservations() templ.Component {
	return section(ReservationsTitle, ReservationsNote)
}
