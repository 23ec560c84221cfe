package repos

import (
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

type seedCategory struct {
	name, code string
	parent     string
}

type seedProduct struct {
	id, no, name, desc string
	price              int64
	category, brand    string
	tags               string
	views, sales       int
	created            string
}

type seedReview struct {
	id, productNo, memberID, content string
	rating                           float64
	helpful                          int
	created                          string
}

var (
	demoCategories = []seedCategory{
		{"전자기기", "ELEC", ""},
		{"스마트폰", "PHONE", "전자기기"},
		{"노트북", "LAPTOP", "전자기기"},
		{"오디오", "AUDIO", "전자기기"},
		{"게임", "GAME", "전자기기"},
		{"액세서리", "ACC", ""},
	}

	demoProducts = []seedProduct{
		{"p-iphone15", "P1001", "iPhone 15", "A16 Bionic 칩과 4800만 화소 메인 카메라를 탑재한 스마트폰", 1250000, "스마트폰", "Apple", `["아이폰","5G","카메라"]`, 9120, 410, "2025-01-10 09:00:00"},
		{"p-iphone15pro", "P1002", "iPhone 15 Pro", "티타늄 디자인과 A17 Pro 칩, 프로 카메라 시스템", 1550000, "스마트폰", "Apple", `["아이폰","프로","티타늄"]`, 12847, 247, "2025-01-12 09:00:00"},
		{"p-galaxys24u", "P1003", "Galaxy S24 Ultra", "S펜 내장, 2억 화소 카메라와 갤럭시 AI", 1698000, "스마트폰", "Samsung", `["갤럭시","S펜","AI"]`, 8421, 156, "2025-01-20 09:00:00"},
		{"p-macbookair", "P2001", "MacBook Air M3", "M3 칩을 탑재한 13인치 초경량 노트북", 1500000, "노트북", "Apple", `["맥북","M3","경량"]`, 9632, 198, "2025-02-01 09:00:00"},
		{"p-macbookpro", "P2002", "MacBook Pro 14", "M3 Pro 칩, Liquid Retina XDR 디스플레이", 2990000, "노트북", "Apple", `["맥북","프로"]`, 4210, 61, "2025-02-03 09:00:00"},
		{"p-gram16", "P2003", "LG gram 16", "1.19kg 16인치 대화면 노트북", 1890000, "노트북", "LG", `["그램","대화면"]`, 3105, 52, "2025-02-10 09:00:00"},
		{"p-wh1000xm5", "P3001", "Sony WH-1000XM5", "업계 최고 수준의 노이즈 캔슬링 무선 헤드폰", 450000, "오디오", "Sony", `["헤드폰","노이즈캔슬링"]`, 6234, 134, "2025-03-01 09:00:00"},
		{"p-airpodspro2", "P3002", "AirPods Pro 2", "적응형 오디오와 USB-C 충전 케이스", 359000, "오디오", "Apple", `["이어폰","노이즈캔슬링"]`, 5520, 301, "2025-03-05 09:00:00"},
		{"p-switcholed", "P4001", "Nintendo Switch OLED", "7인치 OLED 화면의 휴대용 게임기", 420000, "게임", "Nintendo", `["닌텐도","휴대용"]`, 5847, 98, "2025-03-15 09:00:00"},
		{"p-iphonecase", "P5001", "iPhone 15 실리콘 케이스", "MagSafe 호환 실리콘 케이스", 69000, "액세서리", "Apple", `["아이폰","케이스"]`, 2040, 520, "2025-04-01 09:00:00"},
	}

	demoMembers = [][3]string{
		{"m-001", "김민준", "minjun@example.com"},
		{"m-002", "이서연", "seoyeon@example.com"},
		{"m-003", "박지훈", "jihoon@example.com"},
		{"m-004", "최유나", "yuna@example.com"},
	}

	demoReviews = []seedReview{
		{"r-001", "P1001", "m-001", "배터리가 하루 종일 가요. 카메라 화질도 정말 좋습니다.", 5, 24, "2025-02-01 10:00:00"},
		{"r-002", "P1001", "m-002", "가볍고 그립감이 좋아요. 충전 속도는 조금 아쉽네요.", 4, 11, "2025-03-15 12:30:00"},
		{"r-003", "P1001", "m-003", "발열이 조금 있지만 전반적으로 만족합니다.", 4, 5, "2025-05-20 18:00:00"},
		{"r-004", "P1002", "m-004", "티타늄이라 정말 가볍고 카메라 줌이 대박입니다.", 5, 40, "2025-02-10 09:10:00"},
		{"r-005", "P1002", "m-001", "배터리 오래감. 프로 모션 화면이 부드러워요.", 5, 18, "2025-04-02 21:00:00"},
		{"r-006", "P1003", "m-002", "S펜이 생각보다 유용하고 화면이 시원합니다.", 5, 9, "2025-02-25 14:00:00"},
		{"r-007", "P1003", "m-003", "무겁고 가격이 비싸요. 배터리는 오래갑니다.", 3, 7, "2025-03-30 08:45:00"},
		{"r-008", "P2001", "m-004", "팬이 없어서 조용하고 배터리가 정말 오래가요.", 5, 33, "2025-02-20 11:00:00"},
		{"r-009", "P2001", "m-001", "가볍고 휴대성이 최고. 개발용으로는 램이 아쉬움.", 4, 12, "2025-06-01 16:20:00"},
		{"r-010", "P2002", "m-002", "디스플레이가 압도적입니다. 영상 편집도 쾌적해요.", 5, 15, "2025-03-11 19:00:00"},
		{"r-011", "P2003", "m-003", "대화면인데 가벼워서 놀랐어요. 키보드 감도 좋습니다.", 4, 6, "2025-03-20 13:00:00"},
		{"r-012", "P3001", "m-004", "노이즈 캔슬링 성능이 정말 좋아요. 착용감도 편합니다.", 5, 28, "2025-03-10 07:30:00"},
		{"r-013", "P3001", "m-001", "통화 품질은 보통이지만 음질은 훌륭합니다.", 4, 4, "2025-04-18 22:10:00"},
		{"r-014", "P3002", "m-002", "노이즈 캔슬링이 자연스럽고 배터리도 괜찮아요.", 4, 10, "2025-03-25 17:00:00"},
		{"r-015", "P4001", "m-003", "화면이 선명하고 아이랑 같이 하기 좋아요.", 5, 8, "2025-04-05 15:00:00"},
		{"r-016", "P4001", "m-004", "조이콘 쏠림이 있어서 별로예요.", 2, 3, "2025-05-01 10:00:00"},
		{"r-017", "P5001", "m-001", "그립감 좋고 먼지가 조금 붙어요.", 3, 2, "2025-04-10 12:00:00"},
	}
)

// seedCatalog inserts the demo catalog when there are no categories yet.
func seedCatalog(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	catIDs := map[string]int64{}
	for _, c := range demoCategories {
		var parent *int64
		depth := 0
		if c.parent != "" {
			id := catIDs[c.parent]
			parent = &id
			depth = 1
		}
		res, err := tx.Exec(`INSERT INTO categories(name,code,parent_id,depth,created_at) VALUES(?,?,?,?,?)`,
			c.name, c.code, parent, depth, now())
		if err != nil {
			return wrapErr("insert category", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		catIDs[c.name] = id
	}

	for _, p := range demoProducts {
		if _, err := tx.Exec(`
			INSERT INTO products(id,product_no,name,description,price,category_id,brand,tags_json,view_count,sales_count,created_at)
			VALUES(?,?,?,?,?,?,?,?,?,?,?)`,
			p.id, p.no, p.name, p.desc, p.price, catIDs[p.category], p.brand, p.tags, p.views, p.sales, p.created); err != nil {
			return wrapErr("insert product", err)
		}
	}

	for _, m := range demoMembers {
		if _, err := tx.Exec(`INSERT INTO members(member_id,member_name,member_email) VALUES(?,?,?)`, m[0], m[1], m[2]); err != nil {
			return wrapErr("insert member", err)
		}
	}

	for _, r := range demoReviews {
		if _, err := tx.Exec(`
			INSERT INTO reviews(id,product_no,member_id,content,rating,helpful_count,created_at)
			VALUES(?,?,?,?,?,?,?)`,
			r.id, r.productNo, r.memberID, r.content, r.rating, r.helpful, r.created); err != nil {
			return wrapErr("insert review", err)
		}
	}

	if _, err := tx.Exec(rollupProductRatings); err != nil {
		return wrapErr("rollup ratings", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	logSeed("products", len(demoProducts))
	logSeed("reviews", len(demoReviews))
	return nil
}

// rollupProductRatings recomputes products.rating and products.review_count
// from the reviews table.
const rollupProductRatings = `
UPDATE products SET
  rating = COALESCE((SELECT ROUND(AVG(r.rating), 2) FROM reviews r WHERE r.product_no = products.product_no), 0),
  review_count = (SELECT COUNT(*) FROM reviews r WHERE r.product_no = products.product_no)`

// seedUsers ensures one USER and one ADMIN exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	users := []struct{ id, email, name, role string }{
		{"u-user", "user@commerce.test", "Demo User", "USER"},
		{"u-admin", "admin@commerce.test", "Admin", "ADMIN"},
	}
	inserted := 0
	for _, u := range users {
		var n int
		if err := db.Get(&n, `SELECT COUNT(*) FROM users WHERE LOWER(email)=LOWER(?)`, u.email); err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		h, err := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if _, err := db.Exec(`INSERT INTO users(id,email,name,password_hash,role,active,created_at) VALUES(?,?,?,?,?,1,?)`,
			u.id, u.email, u.name, string(h), u.role, now()); err != nil {
			return wrapErr("insert user", err)
		}
		inserted++
	}
	logSeed("users", inserted)
	return nil
}
