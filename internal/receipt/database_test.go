package receipt

import (
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/zombor/receipt-reader/internal/parsing"
)

var _ = Describe("BoltDB", func() {
	var (
		tmpDir string
		dbPath string
		db     *BoltDB
		base   time.Time
	)

	newReceipt := func(id string, created time.Time) *Receipt {
		date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
		total := decimal.NewFromInt(240)
		return &Receipt{
			ID:          id,
			Filename:    id + "_test.jpg",
			ContentType: "image/jpeg",
			Currency:    Currency,
			RawText:     "Bread 150 L\nMilk 90 L\nTotal 240 L",
			Items: []parsing.LineItem{
				{Name: "Bread", Price: decimal.NewFromInt(150), Category: parsing.CategoryFood},
				{Name: "Milk", Price: decimal.NewFromInt(90), Category: parsing.CategoryFood},
			},
			Date:      &date,
			Total:     &total,
			CreatedAt: created,
			UpdatedAt: created,
		}
	}

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		dbPath = filepath.Join(tmpDir, "test.db")
		base = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
		var err error
		db, err = NewBoltDB(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Describe("SaveReceipt and GetReceipt", func() {
		var (
			receipt *Receipt
			err     error
		)

		BeforeEach(func() {
			Expect(db.SaveReceipt(newReceipt("test-id", base))).To(Succeed())
		})

		JustBeforeEach(func() {
			receipt, err = db.GetReceipt("test-id")
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should round-trip the parsed data", func() {
			Expect(receipt.ID).To(Equal("test-id"))
			Expect(receipt.Items).To(HaveLen(2))
			Expect(receipt.Items[0].Name).To(Equal("Bread"))
			Expect(receipt.Items[0].Price.String()).To(Equal("150"))
			Expect(receipt.Total.String()).To(Equal("240"))
			Expect(*receipt.Date).To(BeTemporally("==", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))
			Expect(receipt.Currency).To(Equal("ALL"))
		})

		When("saving again under the same ID", func() {
			BeforeEach(func() {
				updated := newReceipt("test-id", base)
				updated.Unreadable = true
				Expect(db.SaveReceipt(updated)).To(Succeed())
			})

			It("should overwrite the receipt", func() {
				Expect(receipt.Unreadable).To(BeTrue())
			})
		})
	})

	Describe("GetReceipt", func() {
		When("receipt does not exist", func() {
			It("returns ErrNotFound", func() {
				receipt, err := db.GetReceipt("nonexistent")
				Expect(err).To(MatchError(ErrNotFound))
				Expect(err).To(MatchError(ContainSubstring("nonexistent")))
				Expect(receipt).To(BeNil())
			})
		})
	})

	Describe("ListReceipts", func() {
		var (
			receipts []*Receipt
			err      error
		)

		JustBeforeEach(func() {
			receipts, err = db.ListReceipts()
		})

		When("there are no receipts", func() {
			It("should return an empty list", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(receipts).NotTo(BeNil())
				Expect(receipts).To(BeEmpty())
			})
		})

		When("there are receipts", func() {
			BeforeEach(func() {
				Expect(db.SaveReceipt(newReceipt("a-old", base))).To(Succeed())
				Expect(db.SaveReceipt(newReceipt("b-new", base.Add(2*time.Hour)))).To(Succeed())
				Expect(db.SaveReceipt(newReceipt("c-mid", base.Add(time.Hour)))).To(Succeed())
			})

			It("should return them newest first", func() {
				Expect(err).NotTo(HaveOccurred())
				ids := make([]string, len(receipts))
				for i, r := range receipts {
					ids[i] = r.ID
				}
				Expect(ids).To(Equal([]string{"b-new", "c-mid", "a-old"}))
			})
		})
	})

	Describe("DeleteReceipt", func() {
		BeforeEach(func() {
			Expect(db.SaveReceipt(newReceipt("test-id", base))).To(Succeed())
		})

		It("should remove the receipt", func() {
			Expect(db.DeleteReceipt("test-id")).To(Succeed())
			_, err := db.GetReceipt("test-id")
			Expect(err).To(MatchError(ErrNotFound))
		})

		It("should not fail for a missing receipt", func() {
			Expect(db.DeleteReceipt("nonexistent")).To(Succeed())
		})
	})

	Describe("ClearReceipts", func() {
		BeforeEach(func() {
			Expect(db.SaveReceipt(newReceipt("one", base))).To(Succeed())
			Expect(db.SaveReceipt(newReceipt("two", base))).To(Succeed())
			Expect(db.SaveQuestion(&Question{ID: "q", Text: "hi", AskedAt: base})).To(Succeed())
		})

		It("should remove every receipt", func() {
			Expect(db.ClearReceipts()).To(Succeed())
			receipts, err := db.ListReceipts()
			Expect(err).NotTo(HaveOccurred())
			Expect(receipts).To(BeEmpty())
		})

		It("should keep the question log", func() {
			Expect(db.ClearReceipts()).To(Succeed())
			questions, err := db.ListQuestions()
			Expect(err).NotTo(HaveOccurred())
			Expect(questions).To(HaveLen(1))
		})

		It("should allow saving afterwards", func() {
			Expect(db.ClearReceipts()).To(Succeed())
			Expect(db.SaveReceipt(newReceipt("three", base))).To(Succeed())
		})
	})

	Describe("Questions", func() {
		BeforeEach(func() {
			Expect(db.SaveQuestion(&Question{ID: "q1", Text: "first", Answer: "a", AskedAt: base})).To(Succeed())
			Expect(db.SaveQuestion(&Question{ID: "q2", Text: "second", Answer: "b", AskedAt: base.Add(time.Minute)})).To(Succeed())
		})

		It("should list them newest first", func() {
			questions, err := db.ListQuestions()
			Expect(err).NotTo(HaveOccurred())
			Expect(questions).To(HaveLen(2))
			Expect(questions[0].Text).To(Equal("second"))
			Expect(questions[1].Answer).To(Equal("a"))
		})
	})

	Describe("NewBoltDB", func() {
		When("the database is already open", func() {
			It("returns an error after the lock timeout", func() {
				_, err := NewBoltDB(dbPath)
				Expect(err).To(MatchError(ContainSubstring("opening boltdb")))
			})
		})
	})
})
