package feedback

// Canned guidance used by the deterministic fallback path, one per diff
// category, each phrased as a leading question so the student keeps doing the
// thinking.
const (
	praiseMessage = "太棒了！你的流程圖完全正確，繼續保持！"

	structureGuidance    = "你的流程圖有「開始」和「結束」節點嗎？"
	missingNodesGuidance = "再讀一次題目，想一想是不是漏掉了某個步驟？"
	missingEdgesGuidance = "檢查一下節點之間的箭頭，每個步驟都連起來了嗎？"
	logicGuidance        = "你的判斷節點有沒有同時畫出「yes」和「no」兩條分支呢？"
)
