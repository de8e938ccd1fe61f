package views

const (
	LoadingText         = "로딩 중..."
	AdminLoadingText    = "관리자 페이지 로딩 중..."
	AdminLoadingSubtext = "데이터를 불러오고 있습니다"
)
