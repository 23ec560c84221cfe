package chatbot

// Greeting opens every conversation.
const Greeting = "안녕하세요! 관리자 대시보드 AI 어시스턴트입니다. 어떤 도움이 필요하신가요?"

const revenueReply = `📈 **매출 관련 정보**

현재 추천 시스템 기여 매출: ₩45.2M (전월 대비 +18.7%)

주요 성과:
- 상위 5개 상품 매출: ₩914.5M
- 평균 전환율: 23.1%
- 추천 CTR: 8.4%

더 자세한 정보가 필요하시면 말씀해 주세요!`

const ctrReply = `🎯 **CTR (클릭률) 분석**

현재 평균 CTR: 8.4% (전주 대비 +12.5%)

일별 CTR 추이:
- 월: 7.2% | 화: 8.1% | 수: 7.8%
- 목: 9.2% | 금: 8.9% | 토: 6.4% | 일: 8.4%

개선 제안:
- 목요일 패턴 분석 필요
- 주말 추천 알고리즘 최적화 검토`

const algorithmReply = `🔧 **추천 알고리즘 성능**

알고리즘별 기여도:
- 키워드 검색: 42%
- 콘텐츠 기반: 35%  
- 리뷰 기반: 23%

추천 정확도: 87.2%

최적화 포인트:
- 콘텐츠 기반 필터링 강화
- 사용자 행동 패턴 분석 개선`

const usersReply = `👥 **사용자 활동 현황**

- 활성 사용자: 12,847명
- 평균 세션 시간: 4분 32초
- 일일 활성 사용자: +8.9%

사용자 행동 패턴:
- 모바일: 68%
- 데스크톱: 32%
- 평균 페이지뷰: 3.4페이지`

const helpReply = `🤖 **사용 가능한 기능**

다음과 같은 질문을 할 수 있습니다:

📊 **분석 요청:**
- "매출 현황 알려줘"
- "CTR 분석해줘"
- "추천 알고리즘 성능은?"

📈 **데이터 조회:**
- "사용자 활동 현황"
- "상품별 성과"
- "전환율 분석"

🔧 **최적화 제안:**
- "개선 방안 추천"
- "성능 향상 팁"`

// %s is the user's input as typed.
const unknownReply = `죄송합니다. '%s'에 대한 구체적인 정보가 없습니다.

다음과 같은 키워드로 질문해보세요:
- 매출, 수익
- CTR, 클릭률
- 추천 알고리즘
- 사용자 현황
- 도움말

더 구체적으로 질문해주시면 더 정확한 답변을 드릴 수 있습니다!`
